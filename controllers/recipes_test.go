package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/RushabhMehta2005/recipe-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecipe(t *testing.T, env *testEnv, userID uint, title string) models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		Title:       title,
		TimeMinutes: 10,
		Price:       decimal.RequireFromString("5.00"),
		UserID:      userID,
	}
	require.NoError(t, env.db.Create(&recipe).Error)
	return recipe
}

func sampleTag(t *testing.T, env *testEnv, userID uint, name string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, UserID: userID}
	require.NoError(t, env.db.Create(&tag).Error)
	return tag
}

func sampleIngredient(t *testing.T, env *testEnv, userID uint, name string) models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, UserID: userID}
	require.NoError(t, env.db.Create(&ingredient).Error)
	return ingredient
}

func TestRecipesLoginRequired(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/recipe/recipes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/recipe/recipes", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListRecipesLimitedToUser(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "test@example.com")
	other, _ := env.createUser(t, "other@example.com")
	first := sampleRecipe(t, env, user.ID, "Steak")
	second := sampleRecipe(t, env, user.ID, "Salad")
	sampleRecipe(t, env, other.ID, "Not mine")

	w := env.do(t, http.MethodGet, "/api/recipe/recipes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	recipes := decode[map[string][]recipeSummary](t, w)["recipes"]
	require.Len(t, recipes, 2)
	assert.Equal(t, second.ID, recipes[0].ID)
	assert.Equal(t, first.ID, recipes[1].ID)
	assert.Equal(t, "5.00", recipes[0].Price)
	assert.Equal(t, []uint{}, recipes[0].Tags)
}

func TestCreateBasicRecipe(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "test@example.com")

	w := env.do(t, http.MethodPost, "/api/recipe/recipes", token, map[string]interface{}{
		"title":        "Chocolate cheesecake",
		"time_minutes": 30,
		"price":        5.5,
		"link":         "https://example.com/cheesecake",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[map[string]recipeDetail](t, w)["recipe"]
	assert.Equal(t, "Chocolate cheesecake", created.Title)
	assert.Equal(t, 30, created.TimeMinutes)
	assert.Equal(t, "5.50", created.Price)
	assert.Equal(t, "https://example.com/cheesecake", created.Link)

	var stored models.Recipe
	require.NoError(t, env.db.First(&stored, created.ID).Error)
	assert.Equal(t, user.ID, stored.UserID)
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("5.5")))
}

func TestCreateRecipeWithTagsAndIngredients(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "test@example.com")
	vegan := sampleTag(t, env, user.ID, "Vegan")
	dessert := sampleTag(t, env, user.ID, "Dessert")
	prawns := sampleIngredient(t, env, user.ID, "Prawns")
	ginger := sampleIngredient(t, env, user.ID, "Ginger")

	w := env.do(t, http.MethodPost, "/api/recipe/recipes", token, map[string]interface{}{
		"title":        "Thai prawn red curry",
		"time_minutes": 20,
		"price":        "7.00",
		"tags":         []uint{vegan.ID, dessert.ID, vegan.ID},
		"ingredients":  []uint{prawns.ID, ginger.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[map[string]recipeDetail](t, w)["recipe"]
	assert.Equal(t, []attribute{{ID: dessert.ID, Name: "Dessert"}, {ID: vegan.ID, Name: "Vegan"}}, created.Tags)
	assert.Equal(t, []attribute{{ID: ginger.ID, Name: "Ginger"}, {ID: prawns.ID, Name: "Prawns"}}, created.Ingredients)
}

func TestCreateRecipeRejectsForeignTag(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "test@example.com")
	other, _ := env.createUser(t, "other@example.com")
	foreign := sampleTag(t, env, other.ID, "Theirs")

	w := env.do(t, http.MethodPost, "/api/recipe/recipes", token, map[string]interface{}{
		"title":        "Sneaky",
		"time_minutes": 5,
		"price":        "1.00",
		"tags":         []uint{foreign.ID},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	env.db.Model(&models.Recipe{}).Count(&count)
	assert.Zero(t, count, "recipe must not be saved when associations are invalid")
}

func TestCreateRecipeValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "test@example.com")

	cases := map[string]map[string]interface{}{
		"missing title":   {"time_minutes": 5, "price": "1.00"},
		"blank title":     {"title": "  ", "time_minutes": 5, "price": "1.00"},
		"missing time":    {"title": "x", "price": "1.00"},
		"negative time":   {"title": "x", "time_minutes": -1, "price": "1.00"},
		"missing price":   {"title": "x", "time_minutes": 5},
		"negative price":  {"title": "x", "time_minutes": 5, "price": "-1"},
		"price too large": {"title": "x", "time_minutes": 5, "price": "1000"},
		"price precision": {"title": "x", "time_minutes": 5, "price": "1.234"},
		"bad link":        {"title": "x", "time_minutes": 5, "price": "1.00", "link": "not a url"},
	}
	for name, body := range cases {
		w := env.do(t, http.MethodPost, "/api/recipe/recipes", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestViewRecipeDetail(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "test@example.com")
	_, otherToken := env.createUser(t, "other@example.com")
	recipe := sampleRecipe(t, env, user.ID, "Sample recipe")
	tag := sampleTag(t, env, user.ID, "Main course")
	ingredient := sampleIngredient(t, env, user.ID, "Cinnamon")
	require.NoError(t, env.db.Model(&recipe).Association("Tags").Append(&tag))
	require.NoError(t, env.db.Model(&recipe).Association("Ingredients").Append(&ingredient))

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/recipe/recipes/%d", recipe.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	detail := decode[map[string]recipeDetail](t, w)["recipe"]
	assert.Equal(t, recipe.ID, detail.ID)
	assert.Equal(t, []attribute{{ID: tag.ID, Name: "Main course"}}, detail.Tags)
	assert.Equal(t, []attribute{{ID: ingredient.ID, Name: "Cinnamon"}}, detail.Ingredients)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/recipe/recipes/%d", recipe.ID), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/recipe/recipes/999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPartialUpdateRecipe(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "test@example.com")
	recipe := sampleRecipe(t, env, user.ID, "Sample recipe")
	old := sampleTag(t, env, user.ID, "Old")
	require.NoError(t, env.db.Model(&recipe).Association("Tags").Append(&old))
	curry := sampleTag(t, env, user.ID, "Curry")

	w := env.do(t, http.MethodPatch, fmt.Sprintf("/api/recipe/recipes/%d", recipe.ID), token, map[string]interface{}{
		"title": "Chicken tikka",
		"tags":  []uint{curry.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := decode[map[string]recipeDetail](t, w)["recipe"]
	assert.Equal(t, "Chicken tikka", updated.Title)
	assert.Equal(t, 10, updated.TimeMinutes)
	assert.Equal(t, "5.00", updated.Price)
	assert.Equal(t, []attribute{{ID: curry.ID, Name: "Curry"}}, updated.Tags)

	w = env.do(t, http.MethodPatch, fmt.Sprintf("/api/recipe/recipes/%d", recipe.ID), token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, fmt.Sprintf("/api/recipe/recipes/%d", recipe.ID), token, map[string]interface{}{"title": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, fmt.Sprintf("/api/recipe/recipes/%d", recipe.ID), token, map[string]interface{}{"link": "not a url"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "bad link")

	var stored models.Recipe
	require.NoError(t, env.db.First(&stored, recipe.ID).Error)
	assert.Empty(t, stored.Link)

	w = env.do(t, http.MethodPatch, fmt.Sprintf("/api/recipe/recipes/%d", recipe.ID), token, map[string]interface{}{"link": "https://example.com/tikka"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "https://example.com/tikka", decode[map[string]recipeDetail](t, w)["recipe"].Link)

	w = env.do(t, http.MethodPatch, fmt.Sprintf("/api/recipe/recipes/%d", recipe.ID), token, map[string]interface{}{"link": ""})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, decode[map[string]recipeDetail](t, w)["recipe"].Link)
}

func TestFullUpdateRecipe(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "test@example.com")
	recipe := sampleRecipe(t, env, user.ID, "Sample recipe")
	tag := sampleTag(t, env, user.ID, "Spicy")
	require.NoError(t, env.db.Model(&recipe).Association("Tags").Append(&tag))

	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/recipe/recipes/%d", recipe.ID), token, map[string]interface{}{
		"title":        "Spaghetti carbonara",
		"time_minutes": 25,
		"price":        "5.00",
		"tags":         []uint{},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := decode[map[string]recipeDetail](t, w)["recipe"]
	assert.Equal(t, "Spaghetti carbonara", updated.Title)
	assert.Equal(t, 25, updated.TimeMinutes)
	assert.Empty(t, updated.Tags)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/recipe/recipes/%d", recipe.ID), token, map[string]interface{}{
		"title": "Missing fields",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOtherUsersRecipe(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "test@example.com")
	other, _ := env.createUser(t, "other@example.com")
	recipe := sampleRecipe(t, env, other.ID, "Theirs")

	w := env.do(t, http.MethodPatch, fmt.Sprintf("/api/recipe/recipes/%d", recipe.ID), token, map[string]interface{}{"title": "Mine"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var stored models.Recipe
	require.NoError(t, env.db.First(&stored, recipe.ID).Error)
	assert.Equal(t, "Theirs", stored.Title)
}

func TestDeleteRecipe(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "test@example.com")
	other, _ := env.createUser(t, "other@example.com")
	recipe := sampleRecipe(t, env, user.ID, "Mine")
	tag := sampleTag(t, env, user.ID, "Keep")
	require.NoError(t, env.db.Model(&recipe).Association("Tags").Append(&tag))
	foreign := sampleRecipe(t, env, other.ID, "Theirs")

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/recipe/recipes/%d", foreign.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/recipe/recipes/%d", recipe.ID), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	var count int64
	env.db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Count(&count)
	assert.Zero(t, count)
	env.db.Table("recipe_tags").Where("recipe_id = ?", recipe.ID).Count(&count)
	assert.Zero(t, count)
	env.db.Model(&models.Tag{}).Where("id = ?", tag.ID).Count(&count)
	assert.Equal(t, int64(1), count, "tags outlive their recipes")
}

func TestFilterRecipesByTagsAndIngredients(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "test@example.com")
	curry := sampleRecipe(t, env, user.ID, "Thai vegetable curry")
	tahini := sampleRecipe(t, env, user.ID, "Aubergine with tahini")
	fish := sampleRecipe(t, env, user.ID, "Fish and chips")

	vegan := sampleTag(t, env, user.ID, "Vegan")
	vegetarian := sampleTag(t, env, user.ID, "Vegetarian")
	require.NoError(t, env.db.Model(&curry).Association("Tags").Append(&vegan))
	require.NoError(t, env.db.Model(&tahini).Association("Tags").Append(&vegetarian))

	feta := sampleIngredient(t, env, user.ID, "Feta cheese")
	require.NoError(t, env.db.Model(&tahini).Association("Ingredients").Append(&feta))

	ids := func(path string) []uint {
		w := env.do(t, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var out []uint
		for _, r := range decode[map[string][]recipeSummary](t, w)["recipes"] {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []uint{tahini.ID, curry.ID},
		ids(fmt.Sprintf("/api/recipe/recipes?tags=%d,%d", vegan.ID, vegetarian.ID)))
	assert.Equal(t, []uint{tahini.ID},
		ids(fmt.Sprintf("/api/recipe/recipes?ingredients=%d", feta.ID)))
	assert.Equal(t, []uint{tahini.ID},
		ids(fmt.Sprintf("/api/recipe/recipes?tags=%d&ingredients=%d", vegetarian.ID, feta.ID)))
	assert.Len(t, ids("/api/recipe/recipes"), 3)
	assert.NotContains(t, ids(fmt.Sprintf("/api/recipe/recipes?tags=%d", vegan.ID)), fish.ID)

	w := env.do(t, http.MethodGet, "/api/recipe/recipes?tags=one", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
