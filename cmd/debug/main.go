// Command debug runs one auto-detect pass and one OCR read against a capture
// source and prints every scan attempt. Useful when tuning OCR_LANGUAGE or
// checking why detection fails on a given screenshot.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/osse101/ExpTracker_Go/internal/capture/source"
	"github.com/osse101/ExpTracker_Go/internal/detect"
	"github.com/osse101/ExpTracker_Go/internal/ocr/tesseract"
	"github.com/osse101/ExpTracker_Go/internal/region"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using flags and environment variables")
	}

	src := flag.String("source", os.Getenv("CAPTURE_SOURCE"), "capture source, e.g. image:shot.png or screen:0")
	lang := flag.String("lang", "eng", "tesseract language")
	retries := flag.Int("retries", detect.MaxRetries, "detection attempts")
	flag.Parse()

	spec, err := source.Parse(*src)
	if err != nil {
		log.Fatalf("Invalid source: %v", err)
	}
	surface, err := source.Open(spec)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", spec, err)
	}
	defer surface.Close()

	engine, err := tesseract.NewEngine(*lang)
	if err != nil {
		log.Fatalf("Failed to start OCR: %v", err)
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	selector := region.NewSelector()
	detector := detect.New(engine, selector, detect.Options{
		MaxRetries: *retries,
		Debug:      true,
	})

	w, h := surface.Size()
	fmt.Printf("--- Source %s (%dx%d) ---\n", spec, w, h)

	det, detErr := detector.Detect(ctx, surface)

	fmt.Println("--- Scan attempts ---")
	for _, s := range detector.Scans() {
		fmt.Printf("#%d %s matched=%t conf=%.1f text=%q", s.Attempt, s.At.Format(time.TimeOnly), s.Matched, s.Confidence, s.Text)
		if s.Region != nil {
			fmt.Printf(" region=%+v", *s.Region)
		}
		fmt.Println()
	}

	if detErr != nil {
		fmt.Printf("\nDetection failed: %v\n", detErr)
		os.Exit(1)
	}
	fmt.Printf("\nDetected after %d attempt(s): %+v (pixels %+v)\n", det.Attempts, det.Region, det.Pixels)

	img, err := surface.Snapshot(det.Pixels)
	if err != nil {
		log.Fatalf("Failed to snapshot region: %v", err)
	}
	printReading(ctx, engine, img)
}

func printReading(ctx context.Context, engine *tesseract.Engine, img image.Image) {
	reading, err := engine.Recognize(ctx, img)
	if err != nil {
		log.Fatalf("OCR failed: %v", err)
	}
	fmt.Println("--- Reading ---")
	fmt.Printf("Text: %q\nConfidence: %.1f\n", reading.Text, reading.Confidence)
	if reading.ExpValue != nil {
		fmt.Printf("EXP: %d\n", *reading.ExpValue)
	} else {
		fmt.Println("EXP: (none)")
	}
	if reading.Percentage != nil {
		fmt.Printf("Percent: %.2f%%\n", *reading.Percentage)
	}
}
