package g2p

import "context"

// Processor turns one orthographic word into phoneme tokens.
type Processor interface {
	Derive(word string) []string
}

// CancellableProcessor is the streaming counterpart of Processor.
//
// The returned channel is closed once in is drained or ctx is canceled.
type CancellableProcessor interface {
	StreamDerive(ctx context.Context, in <-chan string) <-chan Pronunciation
}
