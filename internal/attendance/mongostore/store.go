// Package mongostore persists attendance sessions in MongoDB: one document
// per date plus a singleton pointer document for the active day.
package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ifrasafa/docree-project/internal/models"
)

const currentKey = "current"

type sessionDoc struct {
	ID        string    `bson:"_id"`
	Date      string    `bson:"date"`
	Status    string    `bson:"status"`
	EndTime   time.Time `bson:"endTime"`
	Students  []string  `bson:"students"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type Store struct {
	sessions *mongo.Collection
	current  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		sessions: db.Collection("attendance_sessions"),
		current:  db.Collection("attendance_current"),
	}
}

func (st *Store) GetCurrent(ctx context.Context) (models.AttendanceSession, bool, error) {
	return st.get(ctx, st.current, currentKey)
}

func (st *Store) GetSession(ctx context.Context, date string) (models.AttendanceSession, bool, error) {
	return st.get(ctx, st.sessions, date)
}

func (st *Store) get(ctx context.Context, col *mongo.Collection, key string) (models.AttendanceSession, bool, error) {
	var doc sessionDoc
	err := col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.AttendanceSession{}, false, nil
		}
		return models.AttendanceSession{}, false, err
	}
	return models.AttendanceSession{
		Date:      doc.Date,
		Status:    doc.Status,
		EndTime:   doc.EndTime,
		Students:  doc.Students,
		UpdatedAt: doc.UpdatedAt,
	}, true, nil
}

func (st *Store) PutCurrent(ctx context.Context, s models.AttendanceSession) error {
	return st.put(ctx, st.current, currentKey, s)
}

func (st *Store) PutSession(ctx context.Context, s models.AttendanceSession) error {
	return st.put(ctx, st.sessions, s.Date, s)
}

// put replaces the document's fields; updatedAt is server-assigned so the
// store's last-writer-wins tie-breaking uses one clock.
func (st *Store) put(ctx context.Context, col *mongo.Collection, key string, s models.AttendanceSession) error {
	_, err := col.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{
			"$set": bson.M{
				"date":     s.Date,
				"status":   s.Status,
				"endTime":  s.EndTime,
				"students": s.Students,
			},
			"$currentDate": bson.M{"updatedAt": true},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (st *Store) SetSessionStatus(ctx context.Context, date, status string) error {
	_, err := st.sessions.UpdateOne(ctx,
		bson.M{"_id": date},
		bson.M{
			"$set":         bson.M{"status": status},
			"$currentDate": bson.M{"updatedAt": true},
		},
	)
	return err
}

// SetCurrentStatus only touches the pointer while it still mirrors the given
// date, so a close racing a newer open cannot clobber the new session.
func (st *Store) SetCurrentStatus(ctx context.Context, date, status string) error {
	_, err := st.current.UpdateOne(ctx,
		bson.M{"_id": currentKey, "date": date},
		bson.M{
			"$set":         bson.M{"status": status},
			"$currentDate": bson.M{"updatedAt": true},
		},
	)
	return err
}

// AddStudent grows the student set with $addToSet: concurrent marks from
// different students are unioned server-side, never lost to a full-array
// overwrite.
func (st *Store) AddStudent(ctx context.Context, date, name string) error {
	_, err := st.sessions.UpdateOne(ctx,
		bson.M{"_id": date},
		bson.M{
			"$addToSet":    bson.M{"students": name},
			"$currentDate": bson.M{"updatedAt": true},
		},
	)
	return err
}
