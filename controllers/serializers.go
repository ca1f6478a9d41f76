package controllers

import (
	"github.com/RushabhMehta2005/recipe-api/models"
)

type userResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func serializeUser(u models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

type staffUserResponse struct {
	userResponse
	IsActive    bool `json:"is_active"`
	IsStaff     bool `json:"is_staff"`
	IsSuperuser bool `json:"is_superuser"`
}

// attributeResponse is the wire shape of tags and ingredients.
type attributeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type recipeResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Tags        []uint `json:"tags"`
	Ingredients []uint `json:"ingredients"`
	TimeMinutes int    `json:"time_minutes"`
	Price       string `json:"price"`
	Link        string `json:"link"`
}

type recipeDetailResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	Tags        []attributeResponse `json:"tags"`
	Ingredients []attributeResponse `json:"ingredients"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       string              `json:"price"`
	Link        string              `json:"link"`
}

func serializeRecipe(r models.Recipe) recipeResponse {
	resp := recipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		Tags:        make([]uint, 0, len(r.Tags)),
		Ingredients: make([]uint, 0, len(r.Ingredients)),
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
	}
	for _, t := range r.Tags {
		resp.Tags = append(resp.Tags, t.ID)
	}
	for _, i := range r.Ingredients {
		resp.Ingredients = append(resp.Ingredients, i.ID)
	}
	return resp
}

func serializeRecipeDetail(r models.Recipe) recipeDetailResponse {
	resp := recipeDetailResponse{
		ID:          r.ID,
		Title:       r.Title,
		Tags:        make([]attributeResponse, 0, len(r.Tags)),
		Ingredients: make([]attributeResponse, 0, len(r.Ingredients)),
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
	}
	for _, t := range r.Tags {
		resp.Tags = append(resp.Tags, attributeResponse{ID: t.ID, Name: t.Name})
	}
	for _, i := range r.Ingredients {
		resp.Ingredients = append(resp.Ingredients, attributeResponse{ID: i.ID, Name: i.Name})
	}
	return resp
}
