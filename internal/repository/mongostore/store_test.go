package mongostore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/repository"
)

func TestTranslate(t *testing.T) {
	expired, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want error
	}{
		{"nil", context.Background(), nil, nil},
		{"no documents", context.Background(), mongo.ErrNoDocuments, repository.ErrNotFound},
		{"wrapped no documents", context.Background(), fmt.Errorf("decode: %w", mongo.ErrNoDocuments), repository.ErrNotFound},
		{"duplicate key", context.Background(), mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}, repository.ErrDuplicateKey},
		{"deadline", expired, errors.New("socket closed"), repository.ErrTimeout},
		{"deadline error", context.Background(), context.DeadlineExceeded, repository.ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.ctx, tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}

	other := errors.New("boom")
	assert.Equal(t, other, translate(context.Background(), other))
}

func TestOwnedFilter(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "_id", Value: "o1"}}, ownedFilter("o1", ""))
	assert.Equal(t, bson.D{{Key: "_id", Value: "o1"}, {Key: "userId", Value: "u1"}}, ownedFilter("o1", "u1"))
}

func TestWriteContext_SurvivesCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, done := writeContext(parent, time.Minute)
	defer done()

	cancel()
	assert.NoError(t, ctx.Err())
	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}
