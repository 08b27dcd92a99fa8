package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// Searcher resolves one search term to a downloadable image URL.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// UnsplashClient searches Unsplash for landscape photos.
type UnsplashClient struct {
	clientID string
	baseURL  string
	client   *http.Client
}

func NewUnsplashClient(clientID string) *UnsplashClient {
	return &UnsplashClient{
		clientID: clientID,
		baseURL:  "https://api.unsplash.com",
		client:   &http.Client{Timeout: 20 * time.Second},
	}
}

func (u *UnsplashClient) Search(ctx context.Context, query string) (string, error) {
	if u.clientID == "" {
		return "", fmt.Errorf("unsplash: no client id configured")
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", "1")
	q.Set("orientation", "landscape")
	q.Set("client_id", u.clientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		u.baseURL+"/search/photos?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("unsplash search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unsplash search %q: status %d", query, resp.StatusCode)
	}

	var payload struct {
		Results []struct {
			URLs struct {
				Regular string `json:"regular"`
			} `json:"urls"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("unsplash search %q: %w", query, err)
	}
	if len(payload.Results) == 0 {
		return "", fmt.Errorf("unsplash search %q: no results", query)
	}
	return payload.Results[0].URLs.Regular, nil
}

// Fetcher turns a query plan into canonical-sized JPEG files on disk.
type Fetcher struct {
	searcher Searcher
	client   *http.Client
	log      *zap.SugaredLogger

	width   int
	height  int
	workers int
}

func NewFetcher(searcher Searcher, width, height int, log *zap.SugaredLogger) *Fetcher {
	return &Fetcher{
		searcher: searcher,
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      log,
		width:    width,
		height:   height,
		workers:  4,
	}
}

// Fetch resolves and downloads one image per term into dir, preserving
// term order. Terms that yield nothing are skipped. A term with no search
// hit is retried once with just its first word.
func (f *Fetcher) Fetch(ctx context.Context, terms []string, dir string) []string {
	paths := make([]string, len(terms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for i, term := range terms {
		i, term := i, term
		g.Go(func() error {
			imageURL, err := f.searcher.Search(gctx, term)
			if err != nil {
				if first := firstWord(term); first != "" && first != term {
					imageURL, err = f.searcher.Search(gctx, first)
				}
			}
			if err != nil {
				f.log.Warnw("no image for query", "query", term, "err", err)
				return nil
			}

			path, err := f.download(gctx, imageURL, dir, i)
			if err != nil {
				f.log.Warnw("image download failed", "query", term, "err", err)
				return nil
			}
			paths[i] = path
			return nil
		})
	}
	g.Wait()

	var out []string
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (f *Fetcher) download(ctx context.Context, imageURL, dir string, index int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	src, _, err := image.Decode(resp.Body)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	canonical := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	xdraw.CatmullRom.Scale(canonical, canonical.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	sum := sha256.Sum256([]byte(imageURL))
	name := fmt.Sprintf("bg_%s_%d.jpg", hex.EncodeToString(sum[:])[:10], index)
	path := filepath.Join(dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := jpeg.Encode(out, canonical, &jpeg.Options{Quality: 95}); err != nil {
		out.Close()
		os.Remove(path)
		return "", err
	}
	return path, out.Close()
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
