package mongodb

import (
	"context"
	"time"

	"github.com/gr80mcbr/lwfm"
	"github.com/gr80mcbr/lwfm/sentinel/internal/triggers"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const createIndexTimeout = 5 * time.Second

type store struct {
	collection *mongo.Collection
}

func NewStore(database *mongo.Database) (triggers.Store, error) {
	ctx, cancel :=
		context.WithTimeout(context.Background(), createIndexTimeout)
	defer cancel()
	unique := true
	collection := database.Collection("triggers")
	if _, err := collection.Indexes().CreateMany(
		ctx,
		[]mongo.IndexModel{
			{
				Keys: bson.M{
					"handlerId": 1,
				},
				Options: &options.IndexOptions{
					Unique: &unique,
				},
			},
			// This facilitates quickly selecting all triggers for a given source
			// job in registration order
			{
				Keys: bson.D{
					{Key: "sourceJobId", Value: 1},
					{Key: "created", Value: 1},
				},
			},
		},
	); err != nil {
		return nil, errors.Wrap(err, "error adding indexes to triggers collection")
	}
	return &store{
		collection: collection,
	}, nil
}

func (s *store) Create(ctx context.Context, trigger lwfm.Trigger) error {
	if _, err := s.collection.InsertOne(ctx, trigger); err != nil {
		return errors.Wrapf(
			err,
			"error inserting new trigger %q",
			trigger.HandlerID,
		)
	}
	return nil
}

func (s *store) List(ctx context.Context) (lwfm.TriggerList, error) {
	triggerList := lwfm.NewTriggerList()

	findOptions := options.Find()
	findOptions.SetSort(
		bson.D{
			{Key: "created", Value: 1},
			{Key: "_id", Value: 1},
		},
	)
	cur, err := s.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return triggerList, errors.Wrap(err, "error finding triggers")
	}
	if err := cur.All(ctx, &triggerList.Items); err != nil {
		return triggerList, errors.Wrap(err, "error decoding triggers")
	}
	return triggerList, nil
}

func (s *store) ListBySourceJob(
	ctx context.Context,
	jobID string,
) (lwfm.TriggerList, error) {
	triggerList := lwfm.NewTriggerList()

	findOptions := options.Find()
	findOptions.SetSort(
		bson.D{
			{Key: "created", Value: 1},
			{Key: "_id", Value: 1},
		},
	)
	cur, err := s.collection.Find(
		ctx,
		bson.M{"sourceJobId": jobID},
		findOptions,
	)
	if err != nil {
		return triggerList, errors.Wrapf(
			err,
			"error finding triggers for job %q",
			jobID,
		)
	}
	if err := cur.All(ctx, &triggerList.Items); err != nil {
		return triggerList, errors.Wrapf(
			err,
			"error decoding triggers for job %q",
			jobID,
		)
	}
	return triggerList, nil
}

func (s *store) Delete(
	ctx context.Context,
	handlerID string,
) (bool, error) {
	res, err := s.collection.DeleteOne(
		ctx,
		bson.M{
			"handlerId": handlerID,
		},
	)
	if err != nil {
		return false, errors.Wrapf(err, "error deleting trigger %q", handlerID)
	}
	return res.DeletedCount == 1, nil
}

func (s *store) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, errors.Wrap(err, "error deleting triggers")
	}
	return res.DeletedCount, nil
}

func (s *store) Claim(
	ctx context.Context,
	handlerID string,
) (bool, error) {
	// FindOneAndDelete is atomic, so concurrent claimants race safely: exactly
	// one sees the document and everyone else sees ErrNoDocuments.
	res := s.collection.FindOneAndDelete(
		ctx,
		bson.M{
			"handlerId": handlerID,
		},
	)
	if res.Err() == mongo.ErrNoDocuments {
		return false, nil
	}
	if res.Err() != nil {
		return false, errors.Wrapf(
			res.Err(),
			"error claiming trigger %q",
			handlerID,
		)
	}
	return true, nil
}
