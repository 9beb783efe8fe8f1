package analyzer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/trendradar/internal/analyzer"
	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/logger"
)

func TestTranslateProduct(t *testing.T) {
	model := &stubModel{completion: `"Portable Neck Fan"`}
	a := analyzer.New(model, "brand", "English", logger.NewNoOp())

	hooks := "夏日必备 / 三秒降温"
	p := &domain.Product{
		NameOriginal:  "挂脖风扇",
		Platform:      domain.PlatformDouyin,
		HooksOriginal: &hooks,
	}
	require.NoError(t, a.TranslateProduct(context.Background(), p))

	require.NotNil(t, p.NameTranslated)
	assert.Equal(t, "Portable Neck Fan", *p.NameTranslated, "surrounding quotes are stripped")
	require.NotNil(t, p.HooksTranslated)
	assert.Contains(t, model.lastSystem, "into English")
}

func TestTranslateProduct_LatinTextSkipped(t *testing.T) {
	model := &stubModel{completionErr: errors.New("should not be called")}
	a := analyzer.New(model, "brand", "English", logger.NewNoOp())

	p := &domain.Product{
		NameOriginal: "Glow Serum 30ml",
		Platform:     domain.PlatformTikTokShopUS,
	}
	require.NoError(t, a.TranslateProduct(context.Background(), p))
	assert.Nil(t, p.NameTranslated)
}

func TestTranslateProduct_ExistingTranslationKept(t *testing.T) {
	model := &stubModel{completionErr: errors.New("should not be called")}
	a := analyzer.New(model, "brand", "English", logger.NewNoOp())

	existing := "Neck Fan"
	p := &domain.Product{
		NameOriginal:   "挂脖风扇",
		NameTranslated: &existing,
		Platform:       domain.PlatformDouyin,
	}
	require.NoError(t, a.TranslateProduct(context.Background(), p))
	assert.Equal(t, "Neck Fan", *p.NameTranslated)
}

func TestTranslateProduct_Error(t *testing.T) {
	model := &stubModel{completionErr: errors.New("timeout")}
	a := analyzer.New(model, "brand", "English", logger.NewNoOp())

	p := &domain.Product{NameOriginal: "挂脖风扇", Platform: domain.PlatformDouyin}
	err := a.TranslateProduct(context.Background(), p)
	assert.ErrorContains(t, err, "failed to translate name")
}
