// Package tesseract implements the OCR contract on top of Tesseract via
// gosseract.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/ocr"
)

// Engine wraps a single Tesseract client. The client is not safe for
// concurrent use, so every call is serialized.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
	ready  bool
}

// NewEngine creates a Tesseract engine for the given language (e.g. "eng").
func NewEngine(language string) (*Engine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Counters are not dictionary words
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	return &Engine{client: client, ready: true}, nil
}

// Close releases the Tesseract client.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ready = false
	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}

// Ready implements ocr.Recognizer
func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// Recognize implements ocr.Recognizer. The image is expected to contain only
// the counter region.
func (e *Engine) Recognize(ctx context.Context, img image.Image) (domain.OCRReading, error) {
	if err := ctx.Err(); err != nil {
		return domain.OCRReading{}, err
	}

	buf, err := encodePNG(preprocess(img))
	if err != nil {
		return domain.OCRReading{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return domain.OCRReading{}, domain.ErrOCRNotReady
	}

	if err := e.client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return domain.OCRReading{}, fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := e.client.SetWhitelist(ocr.ExpCharWhitelist); err != nil {
		return domain.OCRReading{}, fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf); err != nil {
		return domain.OCRReading{}, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return domain.OCRReading{}, fmt.Errorf("OCR failed: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return domain.OCRReading{}, fmt.Errorf("failed to read word confidences: %w", err)
	}

	reading := ocr.NewReading(text, meanConfidence(boxes))
	slog.Debug(ocr.LogMsgRecognized, "text", reading.Text, "confidence", reading.Confidence)
	return reading, nil
}

// Locate implements ocr.Locator. It looks for an "EXP" label word and returns
// the rectangle spanning the label and the numeric words after it on the
// same text line.
func (e *Engine) Locate(ctx context.Context, img image.Image) (ocr.Location, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Location{}, err
	}

	buf, err := encodePNG(img)
	if err != nil {
		return ocr.Location{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return ocr.Location{}, domain.ErrOCRNotReady
	}

	if err := e.client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return ocr.Location{}, fmt.Errorf("failed to set PSM: %w", err)
	}
	// Some versions reject an empty whitelist; full character set is fine then
	_ = e.client.SetWhitelist("")
	if err := e.client.SetImageFromBytes(buf); err != nil {
		return ocr.Location{}, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return ocr.Location{}, fmt.Errorf("failed to scan frame: %w", err)
	}

	loc := locateField(boxes, img.Bounds().Min)
	if loc.Found {
		slog.Debug(ocr.LogMsgLocated, "text", loc.Text, "x", loc.Region.X, "y", loc.Region.Y)
	} else {
		slog.Debug(ocr.LogMsgNotLocated, "words", len(boxes))
	}
	return loc, nil
}

// locateField picks the first label word that has numeric words after it on
// its line. origin is the image bounds' minimum point.
func locateField(boxes []gosseract.BoundingBox, origin image.Point) ocr.Location {
	type lineKey struct{ block, par, line int }
	lines := make(map[lineKey][]gosseract.BoundingBox)
	var order []lineKey
	for _, b := range boxes {
		k := lineKey{b.BlockNum, b.ParNum, b.LineNum}
		if _, ok := lines[k]; !ok {
			order = append(order, k)
		}
		lines[k] = append(lines[k], b)
	}

	for _, k := range order {
		words := lines[k]
		sort.Slice(words, func(i, j int) bool { return words[i].Box.Min.X < words[j].Box.Min.X })

		for i, w := range words {
			if !ocr.HasLabel(w.Word) {
				continue
			}

			rect := w.Box
			parts := []string{w.Word}
			confs := []float64{w.Confidence}
			for _, next := range words[i+1:] {
				if !containsDigit(next.Word) {
					break
				}
				rect = rect.Union(next.Box)
				parts = append(parts, next.Word)
				confs = append(confs, next.Confidence)
			}
			if len(parts) == 1 {
				continue
			}

			rect = rect.Sub(origin)
			return ocr.Location{
				Found:      true,
				Region:     domain.PixelRegion{X: rect.Min.X, Y: rect.Min.Y, Width: rect.Dx(), Height: rect.Dy()},
				Text:       strings.Join(parts, " "),
				Confidence: mean(confs),
			}
		}
	}
	return ocr.Location{}
}

// preprocess upscales tiny crops and converts to grayscale.
func preprocess(img image.Image) image.Image {
	gray := imaging.Grayscale(img)
	if h := gray.Bounds().Dy(); h > 0 && h < MinRecognizeHeight {
		return imaging.Resize(gray, 0, MinRecognizeHeight, imaging.Lanczos)
	}
	return gray
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func meanConfidence(boxes []gosseract.BoundingBox) float64 {
	confs := make([]float64, 0, len(boxes))
	for _, b := range boxes {
		if strings.TrimSpace(b.Word) != "" {
			confs = append(confs, b.Confidence)
		}
	}
	return mean(confs)
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func containsDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
