package qr

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shakytails/shakytails-backend/pkg/config"
	qrcode "github.com/skip2/go-qrcode"
)

// NewCodeID returns a short URL-safe identifier for a scannable code.
// Uniqueness is enforced by the database; collisions surface as unique
// violations at insert time.
func NewCodeID() string {
	id := uuid.NewString()
	if idx := strings.IndexByte(id, '-'); idx > 0 {
		return id[:idx]
	}
	return id
}

// Generator renders scannable code artifacts for inventory and pet tags.
type Generator struct {
	cfg     config.QRConfig
	baseURL string
}

// NewGenerator builds a Generator rooted at the public site base URL.
func NewGenerator(cfg config.QRConfig, baseURL string) (*Generator, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("output dir is required")
	}
	return &Generator{cfg: cfg, baseURL: trimmed}, nil
}

// RedemptionURL returns the landing-page URL a scanned code resolves to.
func (g *Generator) RedemptionURL(codeID string) string {
	return fmt.Sprintf("%s/landing?code=%s", g.baseURL, codeID)
}

// Render writes a PNG for the code and returns the relative public path.
func (g *Generator) Render(codeID string) (string, error) {
	if strings.TrimSpace(codeID) == "" {
		return "", fmt.Errorf("code id is required")
	}
	if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	file := filepath.Join(g.cfg.OutputDir, codeID+".png")
	if err := qrcode.WriteFile(g.RedemptionURL(codeID), qrcode.Medium, g.imageWidth(), file); err != nil {
		return "", fmt.Errorf("rendering code %s: %w", codeID, err)
	}

	return g.cfg.PublicPath + "/" + codeID + ".png", nil
}

// DataURL returns an inline base64 PNG suitable for email bodies.
func (g *Generator) DataURL(codeID string) (string, error) {
	if strings.TrimSpace(codeID) == "" {
		return "", fmt.Errorf("code id is required")
	}
	png, err := qrcode.Encode(g.RedemptionURL(codeID), qrcode.Medium, g.inlineWidth())
	if err != nil {
		return "", fmt.Errorf("encoding code %s: %w", codeID, err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// FilePath returns the on-disk location of a rendered code image.
func (g *Generator) FilePath(codeID string) string {
	return filepath.Join(g.cfg.OutputDir, codeID+".png")
}

// Remove deletes the rendered artifact for the code, ignoring missing files.
func (g *Generator) Remove(codeID string) error {
	err := os.Remove(g.FilePath(codeID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing code artifact %s: %w", codeID, err)
	}
	return nil
}

func (g *Generator) imageWidth() int {
	if g.cfg.ImageWidth > 0 {
		return g.cfg.ImageWidth
	}
	return 400
}

func (g *Generator) inlineWidth() int {
	if g.cfg.InlineWidth > 0 {
		return g.cfg.InlineWidth
	}
	return 300
}
