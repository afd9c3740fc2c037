package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"homestay/internal/domain/settings"
)

const siteSettingsID = "site"

// SettingsRepository reads the admin-managed settings document. A missing document means no
// fee and partial payment off.
type SettingsRepository struct {
	col *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{col: db.Collection("site_settings")}
}

func (r *SettingsRepository) SiteSettings(ctx context.Context) (settings.SiteSettings, error) {
	raw, err := r.Raw(ctx)
	if err != nil {
		return settings.SiteSettings{}, err
	}
	return raw.Normalize(), nil
}

func (r *SettingsRepository) Raw(ctx context.Context) (settings.Raw, error) {
	var raw settings.Raw
	err := r.col.FindOne(ctx, bson.M{"_id": siteSettingsID}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return settings.Raw{}, nil
	}
	return raw, err
}

func (r *SettingsRepository) Put(ctx context.Context, raw settings.Raw) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": siteSettingsID}, raw, options.Replace().SetUpsert(true))
	return err
}
