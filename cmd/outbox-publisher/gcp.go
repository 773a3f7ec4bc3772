package main

import (
	"context"

	gcppubsub "cloud.google.com/go/pubsub/v2"
)

// gcpPublisher narrows *pubsub.Publisher to the publisher interface so tests can fake results.
type gcpPublisher struct {
	p *gcppubsub.Publisher
}

func newGCPPublisher(p *gcppubsub.Publisher) publisher {
	if p == nil {
		return nil
	}
	return gcpPublisher{p: p}
}

func (g gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return g.p.Publish(ctx, msg)
}
