package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/RushabhMehta2005/recipe-api/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	maxPrice = decimal.RequireFromString("999.99")

	errRecipeNotFound = errors.New("recipe not found")
)

// recipeInput is the common shape of create, replace and partial update
// payloads. Nil fields are left untouched.
type recipeInput struct {
	Title       *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Link        *string
	Tags        []uint
	Ingredients []uint
}

// foreignAttributeError reports association ids the user does not own.
type foreignAttributeError struct {
	kind string
	ids  []uint
}

func (e *foreignAttributeError) Error() string {
	return fmt.Sprintf("invalid %s ids %v: not found", e.kind, e.ids)
}

// ## Recipe Handlers

// ListRecipes returns the user's recipes, newest first. tags and ingredients
// query parameters take comma separated ids and keep recipes matching any.
func (h *Handler) ListRecipes(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	tagIDs, err := h.parseIDList(c.Query("tags"))
	if err != nil {
		h.jsonError(c, http.StatusBadRequest, "Invalid tags filter: "+err.Error())
		return
	}
	ingredientIDs, err := h.parseIDList(c.Query("ingredients"))
	if err != nil {
		h.jsonError(c, http.StatusBadRequest, "Invalid ingredients filter: "+err.Error())
		return
	}

	query := h.DB.WithContext(c.Request.Context()).
		Preload("Tags", orderByName).
		Preload("Ingredients", orderByName).
		Where("user_id = ?", user.ID)
	if len(tagIDs) > 0 {
		query = query.Where("id IN (SELECT recipe_id FROM recipe_tags WHERE tag_id IN ?)", tagIDs)
	}
	if len(ingredientIDs) > 0 {
		query = query.Where("id IN (SELECT recipe_id FROM recipe_ingredients WHERE ingredient_id IN ?)", ingredientIDs)
	}

	var recipes []models.Recipe
	if err := query.Order("id DESC").Find(&recipes).Error; err != nil {
		h.serverError(c, "Failed to fetch recipes", err)
		return
	}

	resp := make([]recipeResponse, 0, len(recipes))
	for _, r := range recipes {
		resp = append(resp, serializeRecipe(r))
	}
	c.JSON(http.StatusOK, gin.H{"recipes": resp})
}

func (h *Handler) GetRecipe(c *gin.Context) {
	recipeID, err := h.parseID(c.Param("id"))
	if err != nil {
		h.jsonError(c, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	recipe, err := h.loadRecipe(h.DB.WithContext(c.Request.Context()), recipeID, user.ID)
	if errors.Is(err, errRecipeNotFound) {
		h.jsonError(c, http.StatusNotFound, "Recipe not found")
		return
	}
	if err != nil {
		h.serverError(c, "Failed to fetch recipe", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": serializeRecipeDetail(recipe)})
}

func (h *Handler) CreateRecipe(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var body struct {
		Title       string           `json:"title" binding:"required,notblank,max=255"`
		TimeMinutes *int             `json:"time_minutes" binding:"required,gte=0"`
		Price       *decimal.Decimal `json:"price" binding:"required"`
		Link        string           `json:"link" binding:"omitempty,url,max=255"`
		Tags        []uint           `json:"tags"`
		Ingredients []uint           `json:"ingredients"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.jsonError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	in := recipeInput{
		Title:       &body.Title,
		TimeMinutes: body.TimeMinutes,
		Price:       body.Price,
		Link:        &body.Link,
		Tags:        body.Tags,
		Ingredients: body.Ingredients,
	}
	if msg := validateRecipeInput(in); msg != "" {
		h.jsonError(c, http.StatusBadRequest, msg)
		return
	}

	recipe := models.Recipe{UserID: user.ID}
	var saved models.Recipe
	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := h.saveRecipe(tx, &recipe, in, true); err != nil {
			return err
		}
		var err error
		saved, err = h.loadRecipe(tx, recipe.ID, user.ID)
		return err
	})
	if h.handleSaveError(c, err, "Could not save recipe") {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": serializeRecipeDetail(saved)})
}

// ReplaceRecipe handles PUT: title, time_minutes and price are required.
func (h *Handler) ReplaceRecipe(c *gin.Context) {
	var body struct {
		Title       string           `json:"title" binding:"required,notblank,max=255"`
		TimeMinutes *int             `json:"time_minutes" binding:"required,gte=0"`
		Price       *decimal.Decimal `json:"price" binding:"required"`
		Link        string           `json:"link" binding:"omitempty,url,max=255"`
		Tags        []uint           `json:"tags"`
		Ingredients []uint           `json:"ingredients"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.jsonError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	h.updateRecipe(c, recipeInput{
		Title:       &body.Title,
		TimeMinutes: body.TimeMinutes,
		Price:       body.Price,
		Link:        &body.Link,
		Tags:        body.Tags,
		Ingredients: body.Ingredients,
	})
}

// UpdateRecipe handles PATCH: only supplied fields change.
func (h *Handler) UpdateRecipe(c *gin.Context) {
	var body struct {
		Title       *string          `json:"title" binding:"omitempty,notblank,max=255"`
		TimeMinutes *int             `json:"time_minutes" binding:"omitempty,gte=0"`
		Price       *decimal.Decimal `json:"price"`
		Link        *string          `json:"link" binding:"omitempty,url,max=255"`
		Tags        []uint           `json:"tags"`
		Ingredients []uint           `json:"ingredients"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.jsonError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	in := recipeInput{
		Title:       body.Title,
		TimeMinutes: body.TimeMinutes,
		Price:       body.Price,
		Link:        body.Link,
		Tags:        body.Tags,
		Ingredients: body.Ingredients,
	}
	if in.Title == nil && in.TimeMinutes == nil && in.Price == nil && in.Link == nil &&
		in.Tags == nil && in.Ingredients == nil {
		h.jsonError(c, http.StatusBadRequest, "No fields to update")
		return
	}
	h.updateRecipe(c, in)
}

func (h *Handler) DeleteRecipe(c *gin.Context) {
	recipeID, err := h.parseID(c.Param("id"))
	if err != nil {
		h.jsonError(c, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	err = h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("id = ? AND user_id = ?", recipeID, user.ID).First(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errRecipeNotFound
			}
			return err
		}
		// Removes the join rows along with the recipe.
		return tx.Select(clause.Associations).Delete(&recipe).Error
	})
	if errors.Is(err, errRecipeNotFound) {
		h.jsonError(c, http.StatusNotFound, "Recipe not found or you don't have permission to delete it")
		return
	}
	if err != nil {
		h.serverError(c, "Failed to delete recipe", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ## Recipe helpers

func (h *Handler) updateRecipe(c *gin.Context, in recipeInput) {
	recipeID, err := h.parseID(c.Param("id"))
	if err != nil {
		h.jsonError(c, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if msg := validateRecipeInput(in); msg != "" {
		h.jsonError(c, http.StatusBadRequest, msg)
		return
	}

	var saved models.Recipe
	err = h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("id = ? AND user_id = ?", recipeID, user.ID).First(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errRecipeNotFound
			}
			return err
		}
		if err := h.saveRecipe(tx, &recipe, in, false); err != nil {
			return err
		}
		var err error
		saved, err = h.loadRecipe(tx, recipe.ID, user.ID)
		return err
	})
	if h.handleSaveError(c, err, "Failed to update recipe") {
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": serializeRecipeDetail(saved)})
}

// saveRecipe applies in to recipe, creating the row when create is set, and
// replaces associations that were supplied. Associations must belong to the
// recipe's owner.
func (h *Handler) saveRecipe(tx *gorm.DB, recipe *models.Recipe, in recipeInput, create bool) error {
	if in.Title != nil {
		recipe.Title = *in.Title
	}
	if in.TimeMinutes != nil {
		recipe.TimeMinutes = *in.TimeMinutes
	}
	if in.Price != nil {
		recipe.Price = *in.Price
	}
	if in.Link != nil {
		recipe.Link = *in.Link
	}

	var tags []models.Tag
	if in.Tags != nil {
		var err error
		if tags, err = ownedByUser[models.Tag](tx, "tag", in.Tags, recipe.UserID); err != nil {
			return err
		}
	}
	var ingredients []models.Ingredient
	if in.Ingredients != nil {
		var err error
		if ingredients, err = ownedByUser[models.Ingredient](tx, "ingredient", in.Ingredients, recipe.UserID); err != nil {
			return err
		}
	}

	if create {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
	} else if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
		return err
	}

	if in.Tags != nil {
		if err := replaceAssociation(tx, recipe, "Tags", tags); err != nil {
			return err
		}
	}
	if in.Ingredients != nil {
		if err := replaceAssociation(tx, recipe, "Ingredients", ingredients); err != nil {
			return err
		}
	}
	return nil
}

func replaceAssociation[T models.Tag | models.Ingredient](tx *gorm.DB, recipe *models.Recipe, name string, objs []T) error {
	association := tx.Model(recipe).Association(name)
	if len(objs) == 0 {
		return association.Clear()
	}
	return association.Replace(objs)
}

func (h *Handler) loadRecipe(db *gorm.DB, recipeID, userID uint) (models.Recipe, error) {
	var recipe models.Recipe
	err := db.Preload("Tags", orderByName).
		Preload("Ingredients", orderByName).
		Where("id = ? AND user_id = ?", recipeID, userID).
		First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return recipe, errRecipeNotFound
	}
	return recipe, err
}

// handleSaveError writes the response for err and reports whether it did.
func (h *Handler) handleSaveError(c *gin.Context, err error, message string) bool {
	var foreign *foreignAttributeError
	switch {
	case err == nil:
		return false
	case errors.Is(err, errRecipeNotFound):
		h.jsonError(c, http.StatusNotFound, "Recipe not found or you don't have permission to update it")
	case errors.As(err, &foreign):
		h.jsonError(c, http.StatusBadRequest, foreign.Error())
	default:
		h.serverError(c, message, err)
	}
	return true
}

// ownedByUser loads the objects with the given ids, failing if any of them
// is missing or belongs to another user.
func ownedByUser[T models.Tag | models.Ingredient](tx *gorm.DB, kind string, ids []uint, userID uint) ([]T, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return []T{}, nil
	}

	var objs []T
	if err := tx.Where("id IN ? AND user_id = ?", unique, userID).Find(&objs).Error; err != nil {
		return nil, err
	}
	if len(objs) != len(unique) {
		found := make(map[uint]bool, len(objs))
		for _, obj := range objs {
			found[attributeID(obj)] = true
		}
		var missing []uint
		for _, id := range unique {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		return nil, &foreignAttributeError{kind: kind, ids: missing}
	}
	return objs, nil
}

func attributeID[T models.Tag | models.Ingredient](obj T) uint {
	switch v := any(obj).(type) {
	case models.Tag:
		return v.ID
	case models.Ingredient:
		return v.ID
	}
	return 0
}

func validateRecipeInput(in recipeInput) string {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return "title may not be blank"
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return "price must not be negative"
		}
		if in.Price.GreaterThan(maxPrice) {
			return "price must not exceed " + maxPrice.StringFixed(2)
		}
		if !in.Price.Equal(in.Price.Round(2)) {
			return "price must have at most 2 decimal places"
		}
	}
	return ""
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func orderByName(db *gorm.DB) *gorm.DB {
	return db.Order("name")
}
