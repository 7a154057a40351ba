package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure RAGService implements the interface.
var _ driving.Chatter = (*RAGService)(nil)

// DefaultTopK is the number of chunks retrieved when the caller passes
// k <= 0.
const DefaultTopK = 3

// NoDocumentsMessage is the fixed answer when retrieval finds nothing.
const NoDocumentsMessage = "No relevant documents found in the database."

// Fixed decoding parameters for answer generation.
const (
	generateTemperature = 0.7
	generateTopP        = 0.9
	generateMaxTokens   = 500
)

// probeTimeout bounds the advisory model-availability check.
const probeTimeout = 5 * time.Second

// RAGService composes retrieval and generation into a single
// question-answering call with timing instrumentation. Backend failures
// are captured in the ChatResponse, never raised to the caller: one bad
// query must not end an interactive session.
type RAGService struct {
	index *IndexService
	llm   driven.LLMService
}

// NewRAGService creates the orchestrator and probes the generation
// backend's model list. A missing model or unreachable backend only logs
// a warning; the first real call is still attempted.
func NewRAGService(index *IndexService, llm driven.LLMService) *RAGService {
	s := &RAGService{
		index: index,
		llm:   llm,
	}
	s.probeBackend()
	return s
}

// probeBackend checks whether the configured model is advertised by the
// backend. Advisory only.
func (s *RAGService) probeBackend() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	models, err := s.llm.ListModels(ctx)
	if err != nil {
		logger.Warn("Could not reach generation backend: %v", err)
		return
	}

	want := s.llm.ModelName()
	for _, name := range models {
		// Tags come back as "model:variant"
		if name == want || strings.SplitN(name, ":", 2)[0] == want {
			logger.Debug("Generation backend ready, model %s available", want)
			return
		}
	}
	logger.Warn("Model %q not found on backend, available: %v", want, models)
}

// Chat answers one question grounded in the indexed documents.
func (s *RAGService) Chat(ctx context.Context, query string, k int) *domain.ChatResponse {
	if k <= 0 {
		k = DefaultTopK
	}

	logger.Section("Chat")
	logger.Debug("Query: %q (top %d)", query, k)

	retrievalStart := time.Now()
	results, err := s.index.Search(ctx, query, k)
	retrievalTime := time.Since(retrievalStart)

	if err != nil {
		return &domain.ChatResponse{
			RetrievalTime: retrievalTime,
			TotalTime:     retrievalTime,
			ModelUsed:     s.llm.ModelName(),
			ErrorMessage:  fmt.Sprintf("retrieval failed: %v", err),
		}
	}

	if len(results) == 0 {
		logger.Debug("No documents retrieved, short-circuiting")
		return &domain.ChatResponse{
			Answer:        NoDocumentsMessage,
			Sources:       []domain.SearchResult{},
			RetrievalTime: retrievalTime,
			TotalTime:     retrievalTime,
			ModelUsed:     s.llm.ModelName(),
			Success:       true,
		}
	}

	prompt := buildPrompt(query, results)

	generationStart := time.Now()
	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Temperature: generateTemperature,
		TopP:        generateTopP,
		MaxTokens:   generateMaxTokens,
	})
	generationTime := time.Since(generationStart)

	if err != nil {
		logger.Debug("Generation failed: %v", err)
		return &domain.ChatResponse{
			Sources:        results,
			RetrievalTime:  retrievalTime,
			GenerationTime: generationTime,
			TotalTime:      retrievalTime + generationTime,
			ModelUsed:      s.llm.ModelName(),
			ErrorMessage:   fmt.Sprintf("generation failed: %v", err),
		}
	}

	return &domain.ChatResponse{
		Answer:         answer,
		Sources:        results,
		RetrievalTime:  retrievalTime,
		GenerationTime: generationTime,
		TotalTime:      retrievalTime + generationTime,
		ModelUsed:      s.llm.ModelName(),
		Success:        true,
	}
}

// Stats reports the current index state.
func (s *RAGService) Stats(ctx context.Context) (*domain.IndexStats, error) {
	return s.index.Stats(ctx)
}

// buildPrompt assembles the grounding prompt: every retrieved chunk is
// labelled by source index, and the model is told to answer only from
// the given context, with an explicit fallback phrase when the context
// is insufficient.
func buildPrompt(query string, results []domain.SearchResult) string {
	var sb strings.Builder
	sb.WriteString("You are a helpful AI assistant. Answer the question based ONLY on the provided context. ")
	sb.WriteString(`If the answer is not in the context, say "I don't have enough information in the provided documents to answer that question."`)
	sb.WriteString("\n\nCONTEXT:\n")
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[Source %d]: %s", i+1, r.Content)
	}
	sb.WriteString("\n\nQUESTION: ")
	sb.WriteString(query)
	sb.WriteString("\n\nANSWER (be specific and cite which sources you used):")
	return sb.String()
}
