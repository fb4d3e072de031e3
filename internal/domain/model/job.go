package model

// Job is one unit of pool work. Seq is the input position used to restore order.
type Job struct {
	Seq      int
	PlayerID int
}

// JobsFor numbers ids in order.
func JobsFor(ids []int) []Job {
	jobs := make([]Job, len(ids))
	for i, id := range ids {
		jobs[i] = Job{Seq: i, PlayerID: id}
	}
	return jobs
}

// IDRange returns the ids in (from, to]. It is empty when to <= from.
func IDRange(from, to int) []int {
	if to <= from {
		return nil
	}
	ids := make([]int, 0, to-from)
	for id := from + 1; id <= to; id++ {
		ids = append(ids, id)
	}
	return ids
}
