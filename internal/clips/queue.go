package clips

// JobQueue hands accepted jobs to the dispatcher in FIFO order.
type JobQueue interface {
	Enqueue(jobID string)
}
