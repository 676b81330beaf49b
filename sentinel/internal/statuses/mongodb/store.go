package mongodb

import (
	"context"
	"time"

	"github.com/gr80mcbr/lwfm"
	"github.com/gr80mcbr/lwfm/sentinel/internal/statuses"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const createIndexTimeout = 5 * time.Second

type store struct {
	statusesCollection *mongo.Collection
	contextsCollection *mongo.Collection
	watchesCollection  *mongo.Collection
}

func NewStore(database *mongo.Database) (statuses.Store, error) {
	ctx, cancel :=
		context.WithTimeout(context.Background(), createIndexTimeout)
	defer cancel()
	unique := true

	statusesCollection := database.Collection("statuses")
	if _, err := statusesCollection.Indexes().CreateMany(
		ctx,
		[]mongo.IndexModel{
			// This is what makes status reports idempotent: a retransmitted
			// report lands on this index and is dropped instead of duplicating
			// history
			{
				Keys: bson.D{
					{Key: "jobContext.id", Value: 1},
					{Key: "nativeStatus", Value: 1},
					{Key: "emitTime", Value: 1},
				},
				Options: &options.IndexOptions{
					Unique: &unique,
				},
			},
			// This facilitates retrieving a job's history in emission order
			{
				Keys: bson.D{
					{Key: "jobContext.id", Value: 1},
					{Key: "emitTime", Value: 1},
				},
			},
		},
	); err != nil {
		return nil, errors.Wrap(err, "error adding indexes to statuses collection")
	}

	contextsCollection := database.Collection("contexts")
	if _, err := contextsCollection.Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys: bson.M{
				"id": 1,
			},
			Options: &options.IndexOptions{
				Unique: &unique,
			},
		},
	); err != nil {
		return nil, errors.Wrap(err, "error adding indexes to contexts collection")
	}

	watchesCollection := database.Collection("watches")
	if _, err := watchesCollection.Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys: bson.M{
				"jobId": 1,
			},
			Options: &options.IndexOptions{
				Unique: &unique,
			},
		},
	); err != nil {
		return nil, errors.Wrap(err, "error adding indexes to watches collection")
	}

	return &store{
		statusesCollection: statusesCollection,
		contextsCollection: contextsCollection,
		watchesCollection:  watchesCollection,
	}, nil
}

func (s *store) CreateStatus(
	ctx context.Context,
	status lwfm.JobStatus,
) error {
	if _, err := s.statusesCollection.InsertOne(ctx, status); err != nil {
		if isDuplicateKeyError(err) {
			return &lwfm.ErrConflict{
				Type: "JobStatus",
				ID:   status.JobContext.ID,
				Reason: "An identical status report for this job has already " +
					"been recorded.",
			}
		}
		return errors.Wrapf(
			err,
			"error inserting status of job %q",
			status.JobContext.ID,
		)
	}
	return nil
}

func (s *store) GetLatestStatus(
	ctx context.Context,
	jobID string,
) (lwfm.JobStatus, error) {
	status := lwfm.JobStatus{}
	findOptions := options.FindOne()
	findOptions.SetSort(
		bson.D{
			{Key: "emitTime", Value: -1},
			{Key: "_id", Value: -1},
		},
	)
	res := s.statusesCollection.FindOne(
		ctx,
		bson.M{"jobContext.id": jobID},
		findOptions,
	)
	if res.Err() == mongo.ErrNoDocuments {
		return status, &lwfm.ErrNotFound{
			Type: "Job",
			ID:   jobID,
		}
	}
	if res.Err() != nil {
		return status, errors.Wrapf(
			res.Err(),
			"error finding latest status of job %q",
			jobID,
		)
	}
	if err := res.Decode(&status); err != nil {
		return status, errors.Wrapf(
			err,
			"error decoding latest status of job %q",
			jobID,
		)
	}
	return status, nil
}

func (s *store) GetStatusHistory(
	ctx context.Context,
	jobID string,
) (lwfm.JobStatusList, error) {
	statusList := lwfm.NewJobStatusList()

	findOptions := options.Find()
	findOptions.SetSort(
		bson.D{
			{Key: "emitTime", Value: 1},
			{Key: "_id", Value: 1},
		},
	)
	cur, err := s.statusesCollection.Find(
		ctx,
		bson.M{"jobContext.id": jobID},
		findOptions,
	)
	if err != nil {
		return statusList, errors.Wrapf(
			err,
			"error finding statuses of job %q",
			jobID,
		)
	}
	if err := cur.All(ctx, &statusList.Items); err != nil {
		return statusList, errors.Wrapf(
			err,
			"error decoding statuses of job %q",
			jobID,
		)
	}
	if len(statusList.Items) == 0 {
		return statusList, &lwfm.ErrNotFound{
			Type: "Job",
			ID:   jobID,
		}
	}
	return statusList, nil
}

func (s *store) ListLatestStatuses(
	ctx context.Context,
) (lwfm.JobStatusList, error) {
	statusList := lwfm.NewJobStatusList()

	cur, err := s.statusesCollection.Aggregate(
		ctx,
		mongo.Pipeline{
			{
				{Key: "$sort", Value: bson.D{
					{Key: "jobContext.id", Value: 1},
					{Key: "emitTime", Value: 1},
					{Key: "_id", Value: 1},
				}},
			},
			{
				{Key: "$group", Value: bson.D{
					{Key: "_id", Value: "$jobContext.id"},
					{Key: "latest", Value: bson.D{
						{Key: "$last", Value: "$$ROOT"},
					}},
				}},
			},
			{
				{Key: "$replaceRoot", Value: bson.D{
					{Key: "newRoot", Value: "$latest"},
				}},
			},
			{
				{Key: "$sort", Value: bson.D{
					{Key: "jobContext.id", Value: 1},
				}},
			},
		},
	)
	if err != nil {
		return statusList, errors.Wrap(err, "error aggregating latest statuses")
	}
	if err := cur.All(ctx, &statusList.Items); err != nil {
		return statusList, errors.Wrap(err, "error decoding latest statuses")
	}
	return statusList, nil
}

func (s *store) UpsertContext(
	ctx context.Context,
	jobContext lwfm.JobContext,
) error {
	upsert := true
	if _, err := s.contextsCollection.ReplaceOne(
		ctx,
		bson.M{"id": jobContext.ID},
		jobContext,
		&options.ReplaceOptions{
			Upsert: &upsert,
		},
	); err != nil {
		return errors.Wrapf(
			err,
			"error upserting identity of job %q",
			jobContext.ID,
		)
	}
	return nil
}

func (s *store) GetContext(
	ctx context.Context,
	jobID string,
) (lwfm.JobContext, error) {
	jobContext := lwfm.JobContext{}
	res := s.contextsCollection.FindOne(ctx, bson.M{"id": jobID})
	if res.Err() == mongo.ErrNoDocuments {
		return jobContext, &lwfm.ErrNotFound{
			Type: "Job",
			ID:   jobID,
		}
	}
	if res.Err() != nil {
		return jobContext, errors.Wrapf(
			res.Err(),
			"error finding identity of job %q",
			jobID,
		)
	}
	if err := res.Decode(&jobContext); err != nil {
		return jobContext, errors.Wrapf(
			err,
			"error decoding identity of job %q",
			jobID,
		)
	}
	return jobContext, nil
}

func (s *store) UpsertWatch(ctx context.Context, watch lwfm.Watch) error {
	upsert := true
	if _, err := s.watchesCollection.ReplaceOne(
		ctx,
		bson.M{"jobId": watch.JobID},
		watch,
		&options.ReplaceOptions{
			Upsert: &upsert,
		},
	); err != nil {
		return errors.Wrapf(err, "error upserting watch on job %q", watch.JobID)
	}
	return nil
}

func (s *store) DeleteWatch(
	ctx context.Context,
	jobID string,
) (bool, error) {
	res, err := s.watchesCollection.DeleteOne(ctx, bson.M{"jobId": jobID})
	if err != nil {
		return false, errors.Wrapf(err, "error deleting watch on job %q", jobID)
	}
	return res.DeletedCount == 1, nil
}

func isDuplicateKeyError(err error) bool {
	if writeException, ok := err.(mongo.WriteException); ok {
		for _, writeError := range writeException.WriteErrors {
			if writeError.Code == 11000 {
				return true
			}
		}
	}
	return false
}
