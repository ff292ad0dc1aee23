package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/services"
)

// Runs one resume against one job description from the command line:
//
//	go run ./scripts -resume ./cv.pdf -jd ./job.txt
func main() {
	resumePath := flag.String("resume", "", "path to the resume (PDF or DOCX)")
	jdPath := flag.String("jd", "", "path to a plain text job description")
	jdText := flag.String("jd-text", "", "job description text, used when -jd is empty")
	flag.Parse()

	if *resumePath == "" {
		log.Fatal("❌ -resume is required")
	}

	log.Println("🚀 Starting resume match...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx := context.Background()

	generator, err := services.NewTextGenerator(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("❌ Failed to initialize text generator: %v", err)
	}

	jobDescription := *jdText
	if *jdPath != "" {
		data, err := os.ReadFile(*jdPath)
		if err != nil {
			log.Fatalf("❌ Failed to read job description: %v", err)
		}
		jobDescription = string(data)
	}

	// Empty MIME type makes the extractor sniff the content.
	extractor := services.NewTextExtractor(cfg.Extraction.MaxChars)
	resumeText, err := extractor.ExtractFile(*resumePath, "")
	if err != nil {
		log.Fatalf("❌ Failed to extract resume text: %v", err)
	}
	log.Printf("📄 Extracted %d characters from %s", len([]rune(resumeText)), *resumePath)

	evaluator := services.NewMatchEvaluator(generator, cfg.LLM, cfg.Extraction.MaxChars)

	log.Println("🤖 Evaluating match with LLM...")
	outcome, err := evaluator.Evaluate(ctx, jobDescription, resumeText)
	if err != nil {
		log.Fatalf("❌ Evaluation failed: %v", err)
	}

	out, err := json.MarshalIndent(outcome.Body(), "", "  ")
	if err != nil {
		log.Fatalf("❌ Failed to encode result: %v", err)
	}

	fmt.Println(string(out))
	log.Printf("✅ Done (state: %s)", outcome.State)
}
