package printing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// Printer sends a label, referenced by URL, to a physical printer.
// Label generation itself belongs to the backend; this side only
// downloads and spools.
type Printer interface {
	Print(ctx context.Context, labelURL string) error
	Name() string
}

// LP spools labels through the system print command (lp). An empty
// printer name uses the system default destination.
type LP struct {
	printer string
	http    *http.Client
	log     zerolog.Logger
}

func NewLP(printerName string, log zerolog.Logger) *LP {
	return &LP{
		printer: printerName,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log.With().Str("component", "printing").Logger(),
	}
}

func (p *LP) Name() string {
	if p.printer == "" {
		return "(default)"
	}
	return p.printer
}

func (p *LP) Print(ctx context.Context, labelURL string) error {
	path, err := p.download(ctx, labelURL)
	if err != nil {
		return err
	}
	defer os.Remove(path)

	args := []string{}
	if p.printer != "" {
		args = append(args, "-d", p.printer)
	}
	args = append(args, path)
	if out, err := exec.CommandContext(ctx, "lp", args...).CombinedOutput(); err != nil {
		return fmt.Errorf("spool label: %w: %s", err, out)
	}
	p.log.Info().Str("printer", p.Name()).Str("label", labelURL).Msg("label spooled")
	return nil
}

func (p *LP) download(ctx context.Context, labelURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, labelURL, nil)
	if err != nil {
		return "", err
	}
	res, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("download label: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download label: status %d", res.StatusCode)
	}
	f, err := os.CreateTemp("", "label-*.pdf")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, res.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write label: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
