// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package notify implements the engine's keyspace-notification side
// channel (§6): every successful mutation fires a fire-and-forget tagged
// event. The real host notification mechanism is out of scope (§1); this
// package gives the engine something concrete to call and the CLI/tests
// something concrete to subscribe to.
package notify

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Publisher fires a keyspace notification tagged with a command event, per
// §6: "<command>:<event_uid>[:<occurrence_ts>]". Publish failure is
// non-fatal to the caller; the engine logs it and continues.
type Publisher interface {
	Publish(tag string) error
	Close() error
}

// WatermillPublisher is a Publisher backed by Watermill's in-memory
// gochannel pub/sub, letting tests and the demo CLI subscribe to the same
// topic the engine publishes on without standing up an external broker.
type WatermillPublisher struct {
	pubsub *gochannel.GoChannel
	topic  string
}

// NewWatermillPublisher constructs a WatermillPublisher publishing on topic.
func NewWatermillPublisher(topic string) *WatermillPublisher {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	return &WatermillPublisher{pubsub: pubsub, topic: topic}
}

// Publish fires tag as a notification message.
func (p *WatermillPublisher) Publish(tag string) error {
	msg := message.NewMessage(watermill.NewUUID(), []byte(tag))
	return p.pubsub.Publish(p.topic, msg)
}

// Subscribe returns a channel of notification messages, for tests and the
// demo CLI that want to observe what the engine published.
func (p *WatermillPublisher) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return p.pubsub.Subscribe(ctx, p.topic)
}

// Close shuts down the underlying pub/sub.
func (p *WatermillPublisher) Close() error {
	return p.pubsub.Close()
}

// NopPublisher discards every notification; useful where no subscriber is
// wired (e.g. a one-shot CLI invocation or a unit test not exercising
// notifications).
type NopPublisher struct{}

func (NopPublisher) Publish(string) error { return nil }
func (NopPublisher) Close() error         { return nil }
