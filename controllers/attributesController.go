package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/RushabhMehta2005/recipe-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AttributeController serves list/create/update/delete for one kind of
// user-owned recipe attribute (tags or ingredients). Every query is scoped to
// the authenticated user.
type AttributeController[T models.Tag | models.Ingredient] struct {
	h          *Handler
	singular   string
	plural     string
	joinTable  string
	joinColumn string
	build      func(name string, userID uint) T
	serialize  func(T) attributeResponse
}

func (h *Handler) Tags() *AttributeController[models.Tag] {
	return &AttributeController[models.Tag]{
		h:          h,
		singular:   "tag",
		plural:     "tags",
		joinTable:  "recipe_tags",
		joinColumn: "tag_id",
		build: func(name string, userID uint) models.Tag {
			return models.Tag{Name: name, UserID: userID}
		},
		serialize: func(t models.Tag) attributeResponse {
			return attributeResponse{ID: t.ID, Name: t.Name}
		},
	}
}

func (h *Handler) Ingredients() *AttributeController[models.Ingredient] {
	return &AttributeController[models.Ingredient]{
		h:          h,
		singular:   "ingredient",
		plural:     "ingredients",
		joinTable:  "recipe_ingredients",
		joinColumn: "ingredient_id",
		build: func(name string, userID uint) models.Ingredient {
			return models.Ingredient{Name: name, UserID: userID}
		},
		serialize: func(i models.Ingredient) attributeResponse {
			return attributeResponse{ID: i.ID, Name: i.Name}
		},
	}
}

// List returns the user's objects ordered by name descending. With
// assigned_only=1 only objects attached to at least one recipe are returned.
func (ac *AttributeController[T]) List(c *gin.Context) {
	user, ok := ac.h.currentUser(c)
	if !ok {
		return
	}

	assignedOnly, err := parseFlag(c.Query("assigned_only"))
	if err != nil {
		ac.h.jsonError(c, http.StatusBadRequest, "assigned_only must be 0 or 1")
		return
	}

	query := ac.h.DB.WithContext(c.Request.Context()).Where("user_id = ?", user.ID)
	if assignedOnly {
		query = query.Where(fmt.Sprintf("id IN (SELECT %s FROM %s)", ac.joinColumn, ac.joinTable))
	}

	var objs []T
	if err := query.Order("name DESC").Find(&objs).Error; err != nil {
		ac.h.serverError(c, "Failed to fetch "+ac.plural, err)
		return
	}

	resp := make([]attributeResponse, 0, len(objs))
	for _, obj := range objs {
		resp = append(resp, ac.serialize(obj))
	}
	c.JSON(http.StatusOK, gin.H{ac.plural: resp})
}

// Create stores a new object owned by the requesting user.
func (ac *AttributeController[T]) Create(c *gin.Context) {
	user, ok := ac.h.currentUser(c)
	if !ok {
		return
	}

	var body struct {
		Name string `json:"name" binding:"required,notblank,max=255"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		ac.h.jsonError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	obj := ac.build(body.Name, user.ID)
	if err := ac.h.DB.WithContext(c.Request.Context()).Create(&obj).Error; err != nil {
		ac.h.serverError(c, "Could not save "+ac.singular, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{ac.singular: ac.serialize(obj)})
}

// Update renames one of the user's objects.
func (ac *AttributeController[T]) Update(c *gin.Context) {
	id, err := ac.h.parseID(c.Param("id"))
	if err != nil {
		ac.h.jsonError(c, http.StatusBadRequest, "Invalid "+ac.singular+" ID")
		return
	}

	user, ok := ac.h.currentUser(c)
	if !ok {
		return
	}

	var body struct {
		Name string `json:"name" binding:"required,notblank,max=255"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		ac.h.jsonError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	db := ac.h.DB.WithContext(c.Request.Context())
	result := db.Model(new(T)).
		Where("id = ? AND user_id = ?", id, user.ID).
		Update("name", body.Name)
	if result.Error != nil {
		ac.h.serverError(c, "Failed to update "+ac.singular, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		ac.h.jsonError(c, http.StatusNotFound, notFound(ac.singular))
		return
	}

	var updated T
	if err := db.Where("id = ? AND user_id = ?", id, user.ID).First(&updated).Error; err != nil {
		ac.h.serverError(c, "Failed to fetch updated "+ac.singular, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{ac.singular: ac.serialize(updated)})
}

// Delete removes one of the user's objects and detaches it from recipes.
func (ac *AttributeController[T]) Delete(c *gin.Context) {
	id, err := ac.h.parseID(c.Param("id"))
	if err != nil {
		ac.h.jsonError(c, http.StatusBadRequest, "Invalid "+ac.singular+" ID")
		return
	}

	user, ok := ac.h.currentUser(c)
	if !ok {
		return
	}

	errNotOwned := errors.New("not owned")
	err = ac.h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var obj T
		if err := tx.Where("id = ? AND user_id = ?", id, user.ID).First(&obj).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotOwned
			}
			return err
		}
		if err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", ac.joinTable, ac.joinColumn), id).Error; err != nil {
			return err
		}
		return tx.Delete(&obj).Error
	})
	if errors.Is(err, errNotOwned) {
		ac.h.jsonError(c, http.StatusNotFound, notFound(ac.singular))
		return
	}
	if err != nil {
		ac.h.serverError(c, "Failed to delete "+ac.singular, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func notFound(resource string) string {
	return fmt.Sprintf("%s not found or you don't have permission to access it", resource)
}

func parseFlag(raw string) (bool, error) {
	switch raw {
	case "", "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, fmt.Errorf("invalid flag %q", raw)
	}
}
