package services

import (
	"testing"
	"time"

	"food-delivery-graphql/config"
	"food-delivery-graphql/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.InitDB(&config.Config{
		DBDriver: "sqlite",
		DBSource: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: "disabled",
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()
	u := &models.User{Email: email, Role: role}
	u.SetPassword("secret")
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedRestaurant(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Restaurant {
	t.Helper()
	r := &models.Restaurant{Name: name, Address: "1 Main St", OwnerID: owner.ID}
	require.NoError(t, db.Omit("Owner").Create(r).Error)
	return r
}

func seedDish(t *testing.T, db *gorm.DB, r *models.Restaurant, name string, price int, opts []models.DishOption) *models.Dish {
	t.Helper()
	d := &models.Dish{Name: name, Price: price, RestaurantID: r.ID, Options: datatypes.NewJSONType(opts)}
	require.NoError(t, db.Create(d).Error)
	return d
}

func intPtr(v int) *int              { return &v }
func strPtr(v string) *string        { return &v }
func timePtr(v time.Time) *time.Time { return &v }
