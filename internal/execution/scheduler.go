package execution

// Job is one report to process, with its position in the input
type Job struct {
	Index int
	Path  string
}

// Scheduler distributes reports across workers
type Scheduler interface {
	Schedule(paths []string, workerCount int) [][]Job
}

// RoundRobinScheduler distributes reports evenly across workers
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule distributes reports evenly across workers using round-robin
func (s *RoundRobinScheduler) Schedule(paths []string, workerCount int) [][]Job {
	if workerCount <= 0 {
		workerCount = 1
	}

	distribution := make([][]Job, workerCount)
	for i := range distribution {
		distribution[i] = make([]Job, 0, len(paths)/workerCount+1)
	}

	for i, path := range paths {
		workerIndex := i % workerCount
		distribution[workerIndex] = append(distribution[workerIndex], Job{Index: i, Path: path})
	}

	return distribution
}
