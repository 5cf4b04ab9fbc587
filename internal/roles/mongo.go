package roles

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ifrasafa/docree-project/internal/models"
)

// MongoDirectory resolves roles from the users collection, keyed by the
// identity provider's subject id.
type MongoDirectory struct {
	users *mongo.Collection
}

func NewMongoDirectory(users *mongo.Collection) *MongoDirectory {
	return &MongoDirectory{users: users}
}

func (d *MongoDirectory) Lookup(ctx context.Context, subject string) (Role, error) {
	var user models.User
	err := d.users.FindOne(ctx, bson.M{"auth0Id": subject}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return None, nil
		}
		return None, err
	}
	switch Role(user.Role) {
	case Teacher, Student, Parent:
		return Role(user.Role), nil
	}
	return None, nil
}
