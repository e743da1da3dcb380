package services

import (
	"context"
	"errors"
	"strings"

	"food-delivery-graphql/models"
	"food-delivery-graphql/policy"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	restaurantsPerPage = 3
	categoryPageSize   = 25
)

type RestaurantService struct {
	db *gorm.DB
}

func NewRestaurantService(db *gorm.DB) *RestaurantService {
	return &RestaurantService{db: db}
}

func (s *RestaurantService) CreateRestaurant(ctx context.Context, owner *models.User, in CreateRestaurantInput) CreateRestaurantOutput {
	restaurant := models.Restaurant{
		Name:       in.Name,
		Address:    in.Address,
		CoverImage: in.CoverImage,
		OwnerID:    owner.ID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.CategoryName != "" {
			category, err := getOrCreateCategory(tx, in.CategoryName)
			if err != nil {
				return err
			}
			restaurant.CategoryID = &category.ID
		}
		return tx.Omit(clause.Associations).Create(&restaurant).Error
	})
	if err != nil {
		log.Error().Err(err).Str("op", "createRestaurant").Uint("owner_id", owner.ID).Msg("could not create restaurant")
		return CreateRestaurantOutput{CoreOutput: fail("Could not create restaurant")}
	}
	return CreateRestaurantOutput{CoreOutput: ok(), RestaurantID: restaurant.ID}
}

func (s *RestaurantService) EditRestaurant(ctx context.Context, owner *models.User, in EditRestaurantInput) EditRestaurantOutput {
	const generic = "Could not edit Restaurant"

	restaurant, msg := s.ownedRestaurant(ctx, owner, in.RestaurantID, "You can't edit a restaurant that you don't own", generic)
	if msg != "" {
		return EditRestaurantOutput{fail(msg)}
	}

	if in.Name != nil {
		restaurant.Name = *in.Name
	}
	if in.Address != nil {
		restaurant.Address = *in.Address
	}
	if in.CoverImage != nil {
		restaurant.CoverImage = *in.CoverImage
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.CategoryName != nil && *in.CategoryName != "" {
			category, err := getOrCreateCategory(tx, *in.CategoryName)
			if err != nil {
				return err
			}
			restaurant.CategoryID = &category.ID
		}
		return tx.Omit(clause.Associations).Save(restaurant).Error
	})
	if err != nil {
		log.Error().Err(err).Str("op", "editRestaurant").Uint("restaurant_id", restaurant.ID).Msg("could not save restaurant")
		return EditRestaurantOutput{fail(generic)}
	}
	return EditRestaurantOutput{ok()}
}

func (s *RestaurantService) DeleteRestaurant(ctx context.Context, owner *models.User, restaurantID uint) DeleteRestaurantOutput {
	const generic = "Could not delete restaurant."

	restaurant, msg := s.ownedRestaurant(ctx, owner, restaurantID, "You can't delete a restaurant that you don't own", generic)
	if msg != "" {
		return DeleteRestaurantOutput{fail(msg)}
	}
	if err := s.db.WithContext(ctx).Delete(restaurant).Error; err != nil {
		log.Error().Err(err).Str("op", "deleteRestaurant").Uint("restaurant_id", restaurant.ID).Msg("could not delete restaurant")
		return DeleteRestaurantOutput{fail(generic)}
	}
	return DeleteRestaurantOutput{ok()}
}

func (s *RestaurantService) MyRestaurants(ctx context.Context, owner *models.User) MyRestaurantsOutput {
	var restaurants []models.Restaurant
	if err := s.db.WithContext(ctx).Preload("Category").
		Where("owner_id = ?", owner.ID).Order("id").Find(&restaurants).Error; err != nil {
		log.Error().Err(err).Str("op", "myRestaurants").Msg("query failed")
		return MyRestaurantsOutput{CoreOutput: fail("Could not find restaurants.")}
	}
	return MyRestaurantsOutput{CoreOutput: ok(), Restaurants: restaurants}
}

func (s *RestaurantService) MyRestaurant(ctx context.Context, owner *models.User, id uint) MyRestaurantOutput {
	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Menu").
		Preload("Orders.Items").
		Where("id = ? AND owner_id = ?", id, owner.ID).
		First(&restaurant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return MyRestaurantOutput{CoreOutput: fail("Restaurant not found")}
	}
	if err != nil {
		log.Error().Err(err).Str("op", "myRestaurant").Msg("query failed")
		return MyRestaurantOutput{CoreOutput: fail("Could not find restaurant")}
	}
	return MyRestaurantOutput{CoreOutput: ok(), Restaurant: &restaurant}
}

func (s *RestaurantService) AllCategories(ctx context.Context) AllCategoriesOutput {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		log.Error().Err(err).Str("op", "allCategories").Msg("query failed")
		return AllCategoriesOutput{CoreOutput: fail("Could not load categories")}
	}
	return AllCategoriesOutput{CoreOutput: ok(), Categories: categories}
}

// CountRestaurants backs the computed restaurantCount field of a category
func (s *RestaurantService) CountRestaurants(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Restaurant{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

func (s *RestaurantService) FindCategoryBySlug(ctx context.Context, in CategoryInput) CategoryOutput {
	var out CategoryOutput
	var category models.Category
	err := s.db.WithContext(ctx).Where("slug = ?", in.Slug).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		out.CoreOutput = fail("Category not found")
		return out
	}
	if err != nil {
		log.Error().Err(err).Str("op", "findCategoryBySlug").Msg("query failed")
		out.CoreOutput = fail("Could not load category")
		return out
	}

	q := s.db.WithContext(ctx).Model(&models.Restaurant{}).Where("category_id = ?", category.ID)
	total, err := s.page(q, in.Page, categoryPageSize, &out.Restaurants)
	if err != nil {
		log.Error().Err(err).Str("op", "findCategoryBySlug").Msg("query failed")
		out.CoreOutput = fail("Could not load category")
		return out
	}
	out.CoreOutput = ok()
	out.Category = &category
	out.TotalResults = int(total)
	out.TotalPages = totalPages(total, categoryPageSize)
	return out
}

// AllRestaurants lists restaurants a page at a time, promoted ones first
func (s *RestaurantService) AllRestaurants(ctx context.Context, page int) RestaurantsOutput {
	var out RestaurantsOutput
	q := s.db.WithContext(ctx).Model(&models.Restaurant{})
	total, err := s.page(q, page, restaurantsPerPage, &out.Results)
	if err != nil {
		log.Error().Err(err).Str("op", "allRestaurants").Msg("query failed")
		out.CoreOutput = fail("Could not load restaurants")
		return out
	}
	out.CoreOutput = ok()
	out.TotalResults = int(total)
	out.TotalPages = totalPages(total, restaurantsPerPage)
	return out
}

func (s *RestaurantService) FindRestaurantByID(ctx context.Context, id uint) RestaurantOutput {
	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).Preload("Category").Preload("Menu").First(&restaurant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RestaurantOutput{CoreOutput: fail("Restaurant not found")}
	}
	if err != nil {
		log.Error().Err(err).Str("op", "findRestaurantById").Msg("query failed")
		return RestaurantOutput{CoreOutput: fail("Could not find restaurant")}
	}
	return RestaurantOutput{CoreOutput: ok(), Restaurant: &restaurant}
}

// SearchRestaurantByName matches names case-insensitively
func (s *RestaurantService) SearchRestaurantByName(ctx context.Context, in SearchRestaurantInput) SearchRestaurantOutput {
	var out SearchRestaurantOutput
	pattern := "%" + strings.ToLower(in.Query) + "%"
	q := s.db.WithContext(ctx).Model(&models.Restaurant{}).Where("LOWER(name) LIKE ?", pattern)
	total, err := s.page(q, in.Page, restaurantsPerPage, &out.Restaurants)
	if err != nil {
		log.Error().Err(err).Str("op", "searchRestaurantByName").Msg("query failed")
		out.CoreOutput = fail("Could not search for restaurants")
		return out
	}
	out.CoreOutput = ok()
	out.TotalResults = int(total)
	out.TotalPages = totalPages(total, restaurantsPerPage)
	return out
}

func (s *RestaurantService) CreateDish(ctx context.Context, owner *models.User, in CreateDishInput) CreateDishOutput {
	restaurant, msg := s.ownedRestaurant(ctx, owner, in.RestaurantID, "You can't do that.", "Could not create dish")
	if msg != "" {
		return CreateDishOutput{CoreOutput: fail(msg)}
	}

	dish := models.Dish{
		Name:         in.Name,
		Price:        in.Price,
		Photo:        in.Photo,
		Description:  in.Description,
		Options:      datatypes.NewJSONType(in.Options),
		RestaurantID: restaurant.ID,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&dish).Error; err != nil {
		log.Error().Err(err).Str("op", "createDish").Uint("restaurant_id", restaurant.ID).Msg("could not create dish")
		return CreateDishOutput{CoreOutput: fail("Could not create dish")}
	}
	return CreateDishOutput{CoreOutput: ok(), DishID: dish.ID}
}

func (s *RestaurantService) EditDish(ctx context.Context, owner *models.User, in EditDishInput) EditDishOutput {
	dish, msg := s.ownedDish(ctx, owner, in.DishID, "Could not edit dish")
	if msg != "" {
		return EditDishOutput{fail(msg)}
	}

	if in.Name != nil {
		dish.Name = *in.Name
	}
	if in.Price != nil {
		dish.Price = *in.Price
	}
	if in.Photo != nil {
		dish.Photo = *in.Photo
	}
	if in.Description != nil {
		dish.Description = *in.Description
	}
	if in.Options != nil {
		dish.Options = datatypes.NewJSONType(*in.Options)
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(dish).Error; err != nil {
		log.Error().Err(err).Str("op", "editDish").Uint("dish_id", dish.ID).Msg("could not save dish")
		return EditDishOutput{fail("Could not edit dish")}
	}
	return EditDishOutput{ok()}
}

func (s *RestaurantService) DeleteDish(ctx context.Context, owner *models.User, dishID uint) DeleteDishOutput {
	dish, msg := s.ownedDish(ctx, owner, dishID, "Could not delete dish")
	if msg != "" {
		return DeleteDishOutput{fail(msg)}
	}
	if err := s.db.WithContext(ctx).Delete(&models.Dish{}, dish.ID).Error; err != nil {
		log.Error().Err(err).Str("op", "deleteDish").Uint("dish_id", dish.ID).Msg("could not delete dish")
		return DeleteDishOutput{fail("Could not delete dish")}
	}
	return DeleteDishOutput{ok()}
}

// ownedRestaurant loads a restaurant and checks the owner may manage it.
// On failure the returned message is non-empty.
func (s *RestaurantService) ownedRestaurant(ctx context.Context, owner *models.User, id uint, forbidden, generic string) (*models.Restaurant, string) {
	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).First(&restaurant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "Restaurant not found"
	}
	if err != nil {
		log.Error().Err(err).Uint("restaurant_id", id).Msg("restaurant lookup failed")
		return nil, generic
	}
	if !policy.Can(owner, &restaurant, policy.ManageRestaurant) {
		return nil, forbidden
	}
	return &restaurant, ""
}

func (s *RestaurantService) ownedDish(ctx context.Context, owner *models.User, id uint, generic string) (*models.Dish, string) {
	var dish models.Dish
	err := s.db.WithContext(ctx).Preload("Restaurant").First(&dish, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "Dish not found"
	}
	if err != nil {
		log.Error().Err(err).Uint("dish_id", id).Msg("dish lookup failed")
		return nil, generic
	}
	if !policy.Can(owner, &dish, policy.ManageDish) {
		return nil, "You can't do that."
	}
	return &dish, ""
}

// page counts q and loads one page of it into dest, promoted rows first
func (s *RestaurantService) page(q *gorm.DB, page, perPage int, dest *[]models.Restaurant) (int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}
	err := q.Session(&gorm.Session{}).
		Preload("Category").
		Order("is_promoted DESC").Order("id").
		Offset(offset(page, perPage)).Limit(perPage).
		Find(dest).Error
	return total, err
}

func getOrCreateCategory(tx *gorm.DB, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	category := models.Category{}
	err := tx.Where(models.Category{Slug: models.Slugify(name)}).
		Attrs(models.Category{Name: strings.ToLower(name)}).
		FirstOrCreate(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}
