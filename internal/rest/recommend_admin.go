package rest

import (
	"caseLibrary/business/scoring"
	"caseLibrary/domain"
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type (
	RecommendAdminHandler struct {
		policies PolicyStore
	}

	PolicyStore interface {
		Load(ctx context.Context) scoring.Policy
		Override(ctx context.Context) (domain.RecommendPolicy, error)
		SaveOverride(ctx context.Context, override domain.RecommendPolicy) (scoring.Policy, error)
	}

	PolicyResponse struct {
		Override  domain.RecommendPolicy `json:"override"`
		Effective EffectivePolicy        `json:"effective"`
	}

	EffectivePolicy struct {
		WeightView        float64 `json:"weight_view"`
		WeightLike        float64 `json:"weight_like"`
		WeightBookmark    float64 `json:"weight_bookmark"`
		WeightDuration    float64 `json:"weight_duration"`
		RankInteraction   float64 `json:"rank_interaction"`
		RankTagMatch      float64 `json:"rank_tag_match"`
		RankTimeDecay     float64 `json:"rank_time_decay"`
		DecayWindowHours  float64 `json:"decay_window_hours"`
		ContentRecallSize int     `json:"content_recall_size"`
		PopularRecallSize int     `json:"popular_recall_size"`
		RecentRecallSize  int     `json:"recent_recall_size"`
		RecentViewWindow  int     `json:"recent_view_window"`
		PageSize          int     `json:"page_size"`
	}
)

func NewRecommendAdminHandler(policies PolicyStore) *RecommendAdminHandler {
	return &RecommendAdminHandler{policies: policies}
}

func toEffective(p scoring.Policy) EffectivePolicy {
	return EffectivePolicy{
		WeightView:        p.Actions.View,
		WeightLike:        p.Actions.Like,
		WeightBookmark:    p.Actions.Bookmark,
		WeightDuration:    p.Actions.Duration,
		RankInteraction:   p.Rank.Interaction,
		RankTagMatch:      p.Rank.TagMatch,
		RankTimeDecay:     p.Rank.TimeDecay,
		DecayWindowHours:  p.DecayWindow.Hours(),
		ContentRecallSize: p.ContentRecallSize,
		PopularRecallSize: p.PopularRecallSize,
		RecentRecallSize:  p.RecentRecallSize,
		RecentViewWindow:  p.RecentViewWindow,
		PageSize:          p.PageSize,
	}
}

// GET /api/v1/admin/recommend/policy
func (h *RecommendAdminHandler) GetPolicy(c echo.Context) error {
	ctx := c.Request().Context()

	override, err := h.policies.Override(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PolicyResponse{
		Override:  override,
		Effective: toEffective(h.policies.Load(ctx)),
	})
}

// PUT /api/v1/admin/recommend/policy
func (h *RecommendAdminHandler) UpsertPolicy(c echo.Context) error {
	var req domain.RecommendPolicy
	if err := c.Bind(&req); err != nil {
		return domain.ValidationError("invalid request body")
	}

	effective, err := h.policies.SaveOverride(c.Request().Context(), req)
	if err != nil {
		return err
	}

	req.Name = scoring.DefaultPolicyName
	return c.JSON(http.StatusOK, PolicyResponse{
		Override:  req,
		Effective: toEffective(effective),
	})
}
