package mongostore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

func TestCartRepository_Put(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upsert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		repo := NewCartRepository(mt.Coll)
		cart := domain.NewCart("c1", domain.CartOwner{GuestID: "guest_1"}, time.Now())
		assert.NoError(mt, repo.Put(context.Background(), cart))
	})

	mt.Run("write error is wrapped", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    121,
			Message: "Document failed validation",
		}))

		repo := NewCartRepository(mt.Coll)
		cart := domain.NewCart("c1", domain.CartOwner{GuestID: "guest_1"}, time.Now())
		err := repo.Put(context.Background(), cart)
		require.Error(mt, err)
		assert.ErrorContains(mt, err, "failed to upsert into "+mt.Coll.Name())

		var we mongo.WriteException
		assert.True(mt, errors.As(err, &we))
	})
}
