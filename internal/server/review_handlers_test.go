package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnhKhoa14/bakery/internal/models"
)

func addReview(t *testing.T, env *testEnv, token string, productID primitive.ObjectID, rating int) primitive.ObjectID {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/reviews/products/"+productID.Hex(), token, map[string]interface{}{
		"rating":  rating,
		"comment": "Flaky crust, would buy again",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	raw := decodeBody(t, rec)["review"].(map[string]interface{})["id"].(string)
	id, err := primitive.ObjectIDFromHex(raw)
	require.NoError(t, err)
	return id
}

func TestAddAndListReviews(t *testing.T) {
	env := newTestEnv()
	_, token := env.registerUser(t, "buyer@example.com", models.RoleCustomer)
	productID := primitive.NewObjectID()

	addReview(t, env, token, productID, 5)

	rec := env.do(t, http.MethodGet, "/api/reviews/products/"+productID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, 5.0, listed[0]["rating"])

	// Other products see nothing.
	rec = env.do(t, http.MethodGet, "/api/reviews/products/"+primitive.NewObjectID().Hex(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAddReviewRejectsBadRating(t *testing.T) {
	env := newTestEnv()
	_, token := env.registerUser(t, "buyer@example.com", models.RoleCustomer)
	productID := primitive.NewObjectID()

	rec := env.do(t, http.MethodPost, "/api/reviews/products/"+productID.Hex(), token, map[string]interface{}{
		"rating": 6,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "rating must be between 1 and 5", decodeBody(t, rec)["message"])
	assert.Empty(t, env.reviews.reviews)
}

func TestLikeUnlikeReviewIdempotent(t *testing.T) {
	env := newTestEnv()
	_, token := env.registerUser(t, "buyer@example.com", models.RoleCustomer)
	reviewID := addReview(t, env, token, primitive.NewObjectID(), 4)

	like := "/api/reviews/reviews/" + reviewID.Hex() + "/like"
	unlike := "/api/reviews/reviews/" + reviewID.Hex() + "/unlike"

	// Liking twice keeps a single entry in the likers set.
	rec := env.do(t, http.MethodPost, like, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, like, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	review := decodeBody(t, rec)["review"].(map[string]interface{})
	assert.Len(t, review["likes"], 1)

	rec = env.do(t, http.MethodPost, unlike, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	review = decodeBody(t, rec)["review"].(map[string]interface{})
	assert.Empty(t, review["likes"])

	// Unliking again is still fine.
	rec = env.do(t, http.MethodPost, unlike, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLikeMissingReview(t *testing.T) {
	env := newTestEnv()
	_, token := env.registerUser(t, "buyer@example.com", models.RoleCustomer)

	rec := env.do(t, http.MethodPost, "/api/reviews/reviews/"+primitive.NewObjectID().Hex()+"/like", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Review not found", decodeBody(t, rec)["message"])
}

func TestDeleteReview(t *testing.T) {
	env := newTestEnv()
	_, token := env.registerUser(t, "buyer@example.com", models.RoleCustomer)
	productID := primitive.NewObjectID()
	reviewID := addReview(t, env, token, productID, 3)

	rec := env.do(t, http.MethodDelete, "/api/reviews/reviews/"+reviewID.Hex(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// A deleted review is gone for likes and deletes alike.
	rec = env.do(t, http.MethodDelete, "/api/reviews/reviews/"+reviewID.Hex(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/reviews/reviews/"+reviewID.Hex()+"/like", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
