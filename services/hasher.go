package services

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var ErrHasherClosed = errors.New("hasher is closed")

// HashingResult holds the outcome of a hashing job.
type HashingResult struct {
	Hash string
	Err  error
}

// HashingJob represents a password to be hashed.
type HashingJob struct {
	Password   string
	ResultChan chan<- HashingResult
}

// Hasher manages a pool of workers for CPU-intensive hashing.
type Hasher struct {
	jobChan    chan HashingJob
	done       chan struct{}
	bcryptCost int
	closeOnce  sync.Once
}

// NewHasher creates and starts a new Hasher service.
func NewHasher(numWorkers int, cost int) *Hasher {
	if numWorkers < 1 {
		numWorkers = 1
	}
	h := &Hasher{
		jobChan:    make(chan HashingJob),
		done:       make(chan struct{}),
		bcryptCost: cost,
	}

	for i := 0; i < numWorkers; i++ {
		go h.worker()
	}

	return h
}

// worker is a background goroutine that processes hashing jobs.
func (h *Hasher) worker() {
	for {
		select {
		case job := <-h.jobChan:
			hash, err := bcrypt.GenerateFromPassword([]byte(job.Password), h.bcryptCost)
			// Buffered result channel: the caller may have given up already.
			job.ResultChan <- HashingResult{
				Hash: string(hash),
				Err:  err,
			}
		case <-h.done:
			return
		}
	}
}

// GenerateHash sends a password to the worker pool and waits for the result
// or for ctx to be done. It returns ErrHasherClosed once Close has been called.
func (h *Hasher) GenerateHash(ctx context.Context, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	select {
	case <-h.done:
		return "", ErrHasherClosed
	default:
	}

	resultChan := make(chan HashingResult, 1)
	select {
	case h.jobChan <- HashingJob{Password: password, ResultChan: resultChan}:
	case <-h.done:
		return "", ErrHasherClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}

	// A worker that accepted the job always answers, even during Close.
	select {
	case result := <-resultChan:
		return result.Hash, result.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Compare reports whether password matches the stored bcrypt hash.
func (h *Hasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Close stops the workers. Later GenerateHash calls fail with ErrHasherClosed.
func (h *Hasher) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}
