package mongodb

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core"
)

const (
	studentCollection    = "students"
	attendanceCollection = "attendances"
	gradeCollection      = "grademarks"
	reportCollection     = "importreports"
)

// DB wraps the mongo database handle shared by the repositories.
type DB struct {
	db *mongo.Database
}

// Open connects to the configured MongoDB instance and ensures the unique
// indexes the reconciler's duplicate detection relies on.
func Open(ctx context.Context, conf *core.Config) (*DB, error) {
	u := url.URL{
		Scheme: "mongodb",
		Host:   conf.Database.Address(),
	}
	if conf.Database.User != "" {
		u.User = url.UserPassword(conf.Database.User, conf.Database.Password)
	}

	opts := options.Client().
		ApplyURI(u.String()).
		SetConnectTimeout(10 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "pinging mongodb")
	}

	db := &DB{db: client.Database(conf.Database.Name)}
	if err = db.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// Close disconnects the underlying client.
func (db *DB) Close() error {
	return db.db.Client().Disconnect(context.Background())
}

func (db *DB) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		studentCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "rollNumber", Value: 1}}, Options: unique},
		},
		attendanceCollection: {
			{
				Keys: bson.D{
					{Key: "studentId", Value: 1}, {Key: "date", Value: 1},
					{Key: "subject", Value: 1}, {Key: "period", Value: 1},
				},
				Options: unique,
			},
		},
		gradeCollection: {
			{
				Keys: bson.D{
					{Key: "studentId", Value: 1}, {Key: "subjectCode", Value: 1},
					{Key: "semester", Value: 1}, {Key: "academicYear", Value: 1},
					{Key: "assessmentType", Value: 1},
				},
				Options: unique,
			},
		},
	}
	for coll, models := range indexes {
		if _, err := db.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "creating %s indexes", coll)
		}
	}
	return nil
}
