package services

import (
	"context"
	"fmt"
	"testing"

	"food-delivery-graphql/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRestaurantReusesCategoryBySlug(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewRestaurantService(db)
	owner := seedUser(t, db, "owner@example.com", models.RoleOwner)

	first := svc.CreateRestaurant(ctx, owner, CreateRestaurantInput{Name: "Burger Barn", Address: "x", CategoryName: "Fast Food"})
	require.True(t, first.Ok, first.Error)
	second := svc.CreateRestaurant(ctx, owner, CreateRestaurantInput{Name: "Pizza Place", Address: "y", CategoryName: " fast food "})
	require.True(t, second.Ok, second.Error)

	var categories []models.Category
	require.NoError(t, db.Find(&categories).Error)
	require.Len(t, categories, 1)
	assert.Equal(t, "fast-food", categories[0].Slug)

	count, err := svc.CountRestaurants(ctx, categories[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	dup := svc.CreateRestaurant(ctx, owner, CreateRestaurantInput{Name: "Burger Barn", Address: "z"})
	assert.Equal(t, "Could not create restaurant", dup.Error)
}

func TestEditAndDeleteRestaurantOwnership(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewRestaurantService(db)
	owner := seedUser(t, db, "owner@example.com", models.RoleOwner)
	other := seedUser(t, db, "other@example.com", models.RoleOwner)
	r := seedRestaurant(t, db, owner, "Noodle House")
	seedDish(t, db, r, "Ramen", 10, nil)

	assert.Equal(t, "Restaurant not found",
		svc.EditRestaurant(ctx, owner, EditRestaurantInput{RestaurantID: 999}).Error)
	assert.Equal(t, "You can't edit a restaurant that you don't own",
		svc.EditRestaurant(ctx, other, EditRestaurantInput{RestaurantID: r.ID, Name: strPtr("Stolen")}).Error)

	out := svc.EditRestaurant(ctx, owner, EditRestaurantInput{RestaurantID: r.ID, Name: strPtr("Noodle Palace"), CategoryName: strPtr("Asian")})
	require.True(t, out.Ok, out.Error)
	found := svc.FindRestaurantByID(ctx, r.ID)
	require.True(t, found.Ok)
	assert.Equal(t, "Noodle Palace", found.Restaurant.Name)
	require.NotNil(t, found.Restaurant.Category)
	assert.Equal(t, "asian", found.Restaurant.Category.Slug)
	assert.Len(t, found.Restaurant.Menu, 1)

	assert.Equal(t, "You can't delete a restaurant that you don't own", svc.DeleteRestaurant(ctx, other, r.ID).Error)
	require.True(t, svc.DeleteRestaurant(ctx, owner, r.ID).Ok)
	assert.Equal(t, "Restaurant not found", svc.FindRestaurantByID(ctx, r.ID).Error)

	var dishes int64
	db.Model(&models.Dish{}).Count(&dishes)
	assert.Zero(t, dishes, "menu is deleted with its restaurant")
}

func TestAllRestaurantsPagesPromotedFirst(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewRestaurantService(db)
	owner := seedUser(t, db, "owner@example.com", models.RoleOwner)
	for i := 1; i <= 4; i++ {
		seedRestaurant(t, db, owner, fmt.Sprintf("Restaurant %d", i))
	}
	promoted := seedRestaurant(t, db, owner, "Promoted One")
	require.NoError(t, db.Model(promoted).UpdateColumn("is_promoted", true).Error)

	page1 := svc.AllRestaurants(ctx, 1)
	require.True(t, page1.Ok, page1.Error)
	assert.Equal(t, 5, page1.TotalResults)
	assert.Equal(t, 2, page1.TotalPages)
	require.Len(t, page1.Results, 3)
	assert.Equal(t, "Promoted One", page1.Results[0].Name)

	page2 := svc.AllRestaurants(ctx, 2)
	assert.Len(t, page2.Results, 2)
}

func TestSearchAndCategory(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewRestaurantService(db)
	owner := seedUser(t, db, "owner@example.com", models.RoleOwner)
	require.True(t, svc.CreateRestaurant(ctx, owner, CreateRestaurantInput{Name: "Taco Town", Address: "a", CategoryName: "Mexican"}).Ok)
	require.True(t, svc.CreateRestaurant(ctx, owner, CreateRestaurantInput{Name: "Sushi Stop", Address: "b"}).Ok)

	search := svc.SearchRestaurantByName(ctx, SearchRestaurantInput{Query: "taco", Page: 1})
	require.True(t, search.Ok)
	require.Len(t, search.Restaurants, 1)
	assert.Equal(t, "Taco Town", search.Restaurants[0].Name)

	cat := svc.FindCategoryBySlug(ctx, CategoryInput{Slug: "mexican", Page: 1})
	require.True(t, cat.Ok, cat.Error)
	assert.Equal(t, 1, cat.TotalResults)
	assert.Len(t, cat.Restaurants, 1)

	assert.Equal(t, "Category not found", svc.FindCategoryBySlug(ctx, CategoryInput{Slug: "nope"}).Error)

	all := svc.AllCategories(ctx)
	require.True(t, all.Ok)
	assert.Len(t, all.Categories, 1)

	mine := svc.MyRestaurants(ctx, owner)
	require.True(t, mine.Ok)
	assert.Len(t, mine.Restaurants, 2)
}

func TestDishLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewRestaurantService(db)
	owner := seedUser(t, db, "owner@example.com", models.RoleOwner)
	other := seedUser(t, db, "other@example.com", models.RoleOwner)
	r := seedRestaurant(t, db, owner, "Curry Corner")

	assert.Equal(t, "You can't do that.",
		svc.CreateDish(ctx, other, CreateDishInput{RestaurantID: r.ID, Name: "Korma", Price: 9}).Error)

	created := svc.CreateDish(ctx, owner, CreateDishInput{
		RestaurantID: r.ID,
		Name:         "Korma",
		Price:        9,
		Options:      []models.DishOption{{Name: "Spicy", Extra: intPtr(1)}},
	})
	require.True(t, created.Ok, created.Error)

	assert.Equal(t, "You can't do that.", svc.EditDish(ctx, other, EditDishInput{DishID: created.DishID, Price: intPtr(1)}).Error)
	assert.Equal(t, "Dish not found", svc.EditDish(ctx, owner, EditDishInput{DishID: 999}).Error)

	edited := svc.EditDish(ctx, owner, EditDishInput{DishID: created.DishID, Price: intPtr(12)})
	require.True(t, edited.Ok, edited.Error)

	var dish models.Dish
	require.NoError(t, db.First(&dish, created.DishID).Error)
	assert.Equal(t, 12, dish.Price)
	require.Len(t, dish.Options.Data(), 1)
	assert.Equal(t, "Spicy", dish.Options.Data()[0].Name)

	require.True(t, svc.DeleteDish(ctx, owner, created.DishID).Ok)
	assert.Equal(t, "Dish not found", svc.DeleteDish(ctx, owner, created.DishID).Error)
}

func TestDeletionRules(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewRestaurantService(db)
	owner := seedUser(t, db, "owner@example.com", models.RoleOwner)
	client := seedUser(t, db, "client@example.com", models.RoleClient)

	count := func(model any, where string, args ...any) int64 {
		t.Helper()
		var n int64
		require.NoError(t, db.Model(model).Where(where, args...).Count(&n).Error)
		return n
	}

	t.Run("restaurant removes dishes and detaches orders", func(t *testing.T) {
		r := seedRestaurant(t, db, owner, "Noodle Nook")
		seedDish(t, db, r, "Ramen", 12, nil)
		order := &models.Order{CustomerID: &client.ID, RestaurantID: &r.ID, Total: 12}
		require.NoError(t, db.Create(order).Error)

		out := svc.DeleteRestaurant(ctx, owner, r.ID)
		require.True(t, out.Ok, out.Error)

		assert.Zero(t, count(&models.Dish{}, "restaurant_id = ?", r.ID))
		var reloaded models.Order
		require.NoError(t, db.First(&reloaded, order.ID).Error)
		assert.Nil(t, reloaded.RestaurantID)
	})

	t.Run("category delete nulls restaurants", func(t *testing.T) {
		created := svc.CreateRestaurant(ctx, owner, CreateRestaurantInput{Name: "Taco Town", Address: "x", CategoryName: "Mexican"})
		require.True(t, created.Ok, created.Error)
		require.NoError(t, db.Where("slug = ?", "mexican").Delete(&models.Category{}).Error)

		var r models.Restaurant
		require.NoError(t, db.First(&r, created.RestaurantID).Error)
		assert.Nil(t, r.CategoryID)
	})

	t.Run("user delete removes owned restaurants", func(t *testing.T) {
		seedRestaurant(t, db, owner, "Curry Corner")
		require.NotZero(t, count(&models.Restaurant{}, "owner_id = ?", owner.ID))

		require.NoError(t, db.Delete(owner).Error)
		assert.Zero(t, count(&models.Restaurant{}, "owner_id = ?", owner.ID))
	})
}
