package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"armario-outfits/logger"
	"armario-outfits/models"
	"armario-outfits/outfit"
	"armario-outfits/repository"
)

const (
	// Tile size of one product on the board (portrait)
	tileWidth  = 300
	tileHeight = 400
	maxColumns = 3
	maxTiles   = 6

	qualityBoard   = 80
	maxImageBytes  = 10 << 20
	fetchLimit     = 4
	cacheKeyPrefix = "lookboard_"
)

var placeholderColor = color.NRGBA{R: 235, G: 235, B: 235, A: 255}

// LookboardService renders an outfit's product images into one JPEG collage
type LookboardService struct {
	catalog  repository.CatalogRepositoryInterface
	client   *http.Client
	cacheDir string
	log      *zap.Logger
}

// NewLookboardService creates a new LookboardService. An empty cacheDir
// disables the on-disk cache.
func NewLookboardService(catalog repository.CatalogRepositoryInterface, client *http.Client, cacheDir string, log *zap.Logger) *LookboardService {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LookboardService{
		catalog:  catalog,
		client:   client,
		cacheDir: cacheDir,
		log:      log,
	}
}

// Ensure LookboardService implements LookboardServiceInterface
var _ LookboardServiceInterface = (*LookboardService)(nil)

// GetCachePath returns the cache file path for a board of the given products
func (s *LookboardService) GetCachePath(productIDs []int64) string {
	parts := make([]string, len(productIDs))
	for i, id := range productIDs {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return filepath.Join(s.cacheDir, cacheKeyPrefix+strings.Join(parts, "_")+".jpg")
}

// CacheExists checks if a cached board exists
func CacheExists(cachePath string) bool {
	_, err := os.Stat(cachePath)
	return err == nil
}

// SaveToCache saves a board to the cache
func SaveToCache(cachePath string, data []byte) error {
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(cachePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// Render builds the collage for productIDs in the order given. Unknown ids
// are skipped; images that cannot be fetched become blank tiles.
func (s *LookboardService) Render(ctx context.Context, productIDs []int64) ([]byte, error) {
	log := logger.With(ctx, s.log)

	if len(productIDs) == 0 {
		return nil, &outfit.InputError{Field: "productIds", Err: fmt.Errorf("%w: productIds cannot be empty", outfit.ErrInvalidInput)}
	}
	if len(productIDs) > maxTiles {
		productIDs = productIDs[:maxTiles]
	}

	cachePath := ""
	if s.cacheDir != "" {
		cachePath = s.GetCachePath(productIDs)
		if CacheExists(cachePath) {
			if data, err := os.ReadFile(cachePath); err == nil {
				log.Debug("✓ Look board served from cache", zap.String("path", cachePath))
				return data, nil
			}
		}
	}

	items, err := s.catalog.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("look board products: %w", outfit.ErrNotFound)
	}

	tiles, err := s.fetchTiles(ctx, log, items)
	if err != nil {
		return nil, err
	}

	board := compose(tiles)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, board, imaging.JPEG, imaging.JPEGQuality(qualityBoard)); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	data := buf.Bytes()
	log.Info("🖼️  Look board rendered", zap.Int("tiles", len(tiles)), zap.Int("bytes", len(data)))

	if cachePath != "" {
		if err := SaveToCache(cachePath, data); err != nil {
			log.Warn("⚠️  Failed to cache look board", zap.Error(err))
		}
	}
	return data, nil
}

// fetchTiles downloads and crops every product image concurrently
func (s *LookboardService) fetchTiles(ctx context.Context, log *zap.Logger, items []models.CatalogItem) ([]image.Image, error) {
	tiles := make([]image.Image, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchLimit)
	for i, item := range items {
		g.Go(func() error {
			img, err := s.fetchImage(gctx, item.ImageURL)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn("⚠️  Using blank tile for product", zap.Int64("product_id", item.ID), zap.Error(err))
				tiles[i] = imaging.New(tileWidth, tileHeight, placeholderColor)
				return nil
			}
			tiles[i] = imaging.Fill(img, tileWidth, tileHeight, imaging.Center, imaging.Lanczos)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch look board images: %w", err)
	}
	return tiles, nil
}

func (s *LookboardService) fetchImage(ctx context.Context, url string) (image.Image, error) {
	if url == "" {
		return nil, fmt.Errorf("product has no image")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// compose lays tiles out left to right, top to bottom on a white canvas
func compose(tiles []image.Image) *image.NRGBA {
	cols := min(len(tiles), maxColumns)
	rows := (len(tiles) + cols - 1) / cols
	board := imaging.New(cols*tileWidth, rows*tileHeight, color.White)
	for i, tile := range tiles {
		pt := image.Pt((i%cols)*tileWidth, (i/cols)*tileHeight)
		board = imaging.Paste(board, tile, pt)
	}
	return board
}
