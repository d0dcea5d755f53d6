package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"beanlog/internal/feed"
	"beanlog/internal/models"
	"beanlog/internal/store"
)

type Handler struct {
	db   *gorm.DB
	feed *feed.Service
}

func NewHandler(db *gorm.DB, fs *feed.Service) *Handler {
	return &Handler{db: db, feed: fs}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/feed", h.GetFeed)
		api.GET("/feed/tags/:tag", h.GetTagFeed)
		api.GET("/rankings", h.GetRankings)
		api.POST("/reviews", h.CreateReview)
		api.GET("/cafes/:id/reviews", h.GetCafeReviews)
		api.GET("/users/:id/preferences", h.GetPreferences)
		api.PUT("/users/:id/preferences", h.PutPreferences)
	}
}

// GetFeed serves the personalized feed page for a user.
func (h *Handler) GetFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	cursor, err := store.DecodeCursor(c.Query("cursor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor"})
		return
	}

	filter := feed.FlavorFilter{
		Acidity:    queryFloat(c, "acidity"),
		Sweetness:  queryFloat(c, "sweetness"),
		Body:       queryFloat(c, "body"),
		Bitterness: queryFloat(c, "bitterness"),
		Aroma:      queryFloat(c, "aroma"),
	}

	var prefs *models.UserPreferences
	if userID, parseErr := strconv.ParseUint(c.Query("user_id"), 10, 64); parseErr == nil {
		prefs, err = h.loadPreferences(uint(userID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	page, err := h.feed.Personalized(c.Request.Context(), prefs, filter, limit, cursor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":     page.Reviews,
		"count":       len(page.Reviews),
		"next_cursor": page.NextCursor.Encode(),
	})
}

// GetTagFeed serves the feed filtered by one basic taste tag.
func (h *Handler) GetTagFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	cursor, err := store.DecodeCursor(c.Query("cursor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor"})
		return
	}

	page, err := h.feed.ByTag(c.Request.Context(), c.Param("tag"), limit, cursor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":     page.Reviews,
		"count":       len(page.Reviews),
		"next_cursor": page.NextCursor.Encode(),
	})
}

// GetRankings serves the top-rated view.
func (h *Handler) GetRankings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	reviews, err := h.feed.TopRated(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// CreateReview persists a new review after validating it.
func (h *Handler) CreateReview(c *gin.Context) {
	var req struct {
		CafeID    uint                 `json:"cafe_id" binding:"required"`
		UserID    uint                 `json:"user_id" binding:"required"`
		Rating    float64              `json:"rating"`
		Content   string               `json:"content"`
		BasicTags []string             `json:"basic_tags"`
		Flavor    models.FlavorProfile `json:"flavor_profile"`
		Roasting  string               `json:"roasting"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cafe_id and user_id are required"})
		return
	}

	roasting, err := normalizeRoasting(req.Roasting)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Rating < 0 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 0 and 5"})
		return
	}
	if err := validateFlavor(req.Flavor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review := models.Review{
		CafeID:    req.CafeID,
		UserID:    req.UserID,
		Rating:    req.Rating,
		Content:   req.Content,
		BasicTags: req.BasicTags,
		Flavor:    req.Flavor,
		Roasting:  roasting,
	}
	if err := h.db.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// GetCafeReviews lists a cafe's reviews, most recent first.
func (h *Handler) GetCafeReviews(c *gin.Context) {
	cafeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cafe id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var reviews []models.Review
	err = h.db.Where("cafe_id = ?", cafeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// GetPreferences returns a user's taste profile, empty if never saved.
func (h *Handler) GetPreferences(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	prefs, err := h.loadPreferences(uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if prefs == nil {
		prefs = &models.UserPreferences{UserID: uint(userID)}
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// PutPreferences creates or replaces a user's taste profile.
func (h *Handler) PutPreferences(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req struct {
		Acidity string `json:"acidity"`
		Body    string `json:"body"`
		Roast   string `json:"roast"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preferences body"})
		return
	}
	if err := validatePreferences(req.Acidity, req.Body, req.Roast); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prefs, err := h.loadPreferences(uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if prefs == nil {
		prefs = &models.UserPreferences{UserID: uint(userID)}
	}
	prefs.Acidity = strings.ToLower(req.Acidity)
	prefs.Body = strings.ToLower(req.Body)
	prefs.Roast = strings.ToLower(req.Roast)

	if err := h.db.Save(prefs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

func (h *Handler) loadPreferences(userID uint) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := h.db.Where("user_id = ?", userID).First(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

func queryFloat(c *gin.Context, key string) float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func normalizeRoasting(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	for _, level := range []string{models.RoastLight, models.RoastMedium, models.RoastDark} {
		if strings.EqualFold(s, level) {
			return level, nil
		}
	}
	return "", fmt.Errorf("roasting must be one of Light, Medium, Dark")
}

func validateFlavor(p models.FlavorProfile) error {
	for _, axis := range []*float64{p.Acidity, p.Sweetness, p.Body, p.Bitterness, p.Aroma} {
		if axis != nil && (*axis < 0 || *axis > 5) {
			return fmt.Errorf("flavor axes must be between 0 and 5")
		}
	}
	return nil
}

func validatePreferences(acidity, body, roast string) error {
	ok := func(v string, allowed ...string) bool {
		if v == "" {
			return true
		}
		for _, a := range allowed {
			if strings.EqualFold(v, a) {
				return true
			}
		}
		return false
	}
	if !ok(acidity, models.PrefHigh, models.PrefMedium, models.PrefLow) {
		return fmt.Errorf("acidity must be one of high, medium, low")
	}
	if !ok(body, models.PrefHeavy, models.PrefMedium, models.PrefLight) {
		return fmt.Errorf("body must be one of heavy, medium, light")
	}
	if !ok(roast, models.PrefRoastDark, models.PrefRoastMedium, models.PrefRoastLight) {
		return fmt.Errorf("roast must be one of dark, medium, light")
	}
	return nil
}
