package stream

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	mxerrors "github.com/vnykmshr/muxflow/pkg/common/errors"
)

// Message is one item received from a Redis Pub/Sub stream.
type Message struct {
	Channel string
	Payload string
}

// FromRedisPubSub creates a Stream of messages published to the given Redis
// channels. The subscription is established immediately; Close unsubscribes.
func FromRedisPubSub(client redis.UniversalClient, channels ...string) Stream[Message] {
	pubsub := client.Subscribe(context.Background(), channels...)
	return &redisPubSubStream{pubsub: pubsub, ch: pubsub.Channel()}
}

type redisPubSubStream struct {
	pubsub *redis.PubSub
	ch     <-chan *redis.Message
}

func (s *redisPubSubStream) Next(ctx context.Context) (Message, bool, error) {
	select {
	case msg, ok := <-s.ch:
		if !ok {
			// Subscription closed.
			return Message{}, false, nil
		}
		return Message{Channel: msg.Channel, Payload: msg.Payload}, true, nil
	case <-ctx.Done():
		return Message{}, false, ctx.Err()
	}
}

func (s *redisPubSubStream) Close() error {
	return s.pubsub.Close()
}

// FromRedisList creates a Stream that pops items from the head of a Redis
// list, blocking while the list is empty. Multiple consumers of the same key
// split the items between them.
func FromRedisList(client redis.UniversalClient, key string) Stream[string] {
	return &redisListStream{client: client, key: key}
}

type redisListStream struct {
	client redis.UniversalClient
	key    string
	closed int32
}

func (s *redisListStream) Next(ctx context.Context) (string, bool, error) {
	if atomic.LoadInt32(&s.closed) != 0 {
		return "", false, nil
	}

	res, err := s.client.BLPop(ctx, 0, s.key).Result()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", false, err
		}
		return "", false, mxerrors.NewOperationError("stream", "BLPop", err).
			WithContext("key " + s.key)
	}
	// BLPop returns [key, value].
	return res[1], true, nil
}

func (s *redisListStream) Close() error {
	atomic.StoreInt32(&s.closed, 1)
	return nil
}
