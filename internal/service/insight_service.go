package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vozgestora/internal/llm"
	"vozgestora/internal/model"
	"vozgestora/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	advisorFeedbackLimit = 10
	advisorTemperature   = 0.7

	msgAdvisorWaiting = "Aguardando feedbacks para gerar o relatório estratégico."
	msgAdvisorSilent  = "O povo está em silêncio por enquanto."
	msgAdvisorQuota   = "O sistema de análise por IA atingiu o limite de uso temporário. Os dados brutos abaixo continuam sendo atualizados em tempo real para sua gestão."
	msgAdvisorGeneric = "Houve uma instabilidade na conexão com o cérebro digital. O pulso da cidade continua sendo monitorado manualmente através dos relatos abaixo."

	msgReportQuota   = "Limite de processamento atingido. Tente novamente em alguns minutos ou atualize sua chave de API."
	msgReportGeneric = "Ocorreu um erro ao processar o relatório. Tente novamente."
)

// InsightService turns feedback into AI summaries for the mayor
type InsightService struct {
	generator llm.Generator // nil when no provider is configured
	models    struct{ advisor, report string }
	feedback  repository.FeedbackRepo
	reports   repository.ReportRepo
	directory *DirectoryService
	logger    *zap.Logger
	now       func() time.Time
}

// NewInsightService creates an insight service; generator may be nil
func NewInsightService(generator llm.Generator, advisorModel, reportModel string, feedback repository.FeedbackRepo, reports repository.ReportRepo, directory *DirectoryService, logger *zap.Logger) *InsightService {
	s := &InsightService{
		generator: generator,
		feedback:  feedback,
		reports:   reports,
		directory: directory,
		logger:    logger,
		now:       time.Now,
	}
	s.models.advisor = advisorModel
	s.models.report = reportModel
	return s
}

func (s *InsightService) generate(ctx context.Context, req llm.Request) (string, error) {
	if s.generator == nil {
		return "", llm.ErrNotConfigured
	}
	return s.generator.Generate(ctx, req)
}

func advisorPrompt(municipalityName string, items []*model.Feedback) string {
	lines := make([]string, len(items))
	for i, f := range items {
		lines[i] = fmt.Sprintf("[%s - %s]: %s", f.Category, f.Sentiment, f.Comment)
	}
	return fmt.Sprintf("Você é um estrategista político e de comunicação governamental. Analise estes feedbacks reais da população de %s: \n%s\n\n"+
		"Dê um resumo curto para o Prefeito sobre o humor da cidade e 2 ações imediatas para melhorar a popularidade e resolver os problemas citados. Seja direto e empático.",
		municipalityName, strings.Join(lines, "\n"))
}

func reportPrompt(municipalityName string, items []*model.Feedback) string {
	lines := make([]string, len(items))
	for i, f := range items {
		lines[i] = fmt.Sprintf("[Bairro: %s, Cat: %s, Nota: %d]: %s", f.Neighborhood, f.Category, f.Rating, f.Comment)
	}
	return fmt.Sprintf("Você é um Consultor Sênior de Gestão Pública. Com base nos seguintes feedbacks reais de %s:\n\n%s\n\n"+
		"Escreva um Relatório Estratégico para o Prefeito dividido em:\n"+
		"1. DIAGNÓSTICO DE CLIMA (Como o povo se sente hoje)\n"+
		"2. ZONAS DE RISCO (Quais áreas podem gerar crises políticas ou sociais)\n"+
		"3. PLANO DE AÇÃO 48H (O que fazer imediatamente para acalmar os pontos críticos)\n"+
		"4. OPORTUNIDADES DE INVESTIMENTO (Onde aplicar verba para máximo retorno de satisfação). Use um tom formal, porém encorajador.",
		municipalityName, strings.Join(lines, "\n"))
}

// Advise returns a short summary of the newest feedback. Without feedback no
// model call is made; on failure a fallback text is returned with the error kind.
func (s *InsightService) Advise(ctx context.Context, municipalityID string) (*model.Insight, error) {
	m, err := s.directory.Get(municipalityID)
	if err != nil {
		return nil, err
	}
	items, err := s.feedback.ListByMunicipality(ctx, municipalityID, model.FeedbackFilter{}, advisorFeedbackLimit)
	if err != nil {
		return nil, err
	}

	insight := &model.Insight{
		MunicipalityID: municipalityID,
		Error:          model.AIErrorNone,
		FeedbackCount:  len(items),
		GeneratedAt:    s.now(),
	}
	if len(items) == 0 {
		insight.Text = msgAdvisorWaiting
		return insight, nil
	}

	temp := float32(advisorTemperature)
	text, err := s.generate(ctx, llm.Request{
		Model:       s.models.advisor,
		Prompt:      advisorPrompt(m.Name, items),
		Temperature: &temp,
	})
	switch {
	case err == nil:
		insight.Text = text
	case errors.Is(err, llm.ErrEmptyResponse):
		insight.Text = msgAdvisorSilent
	default:
		insight.Error = fallbackKind(err)
		insight.Text = msgAdvisorGeneric
		if insight.Error == model.AIErrorQuota {
			insight.Text = msgAdvisorQuota
		}
		s.logger.Warn("advisor fell back", zap.String("municipality", municipalityID), zap.String("kind", string(insight.Error)), zap.Error(err))
	}
	return insight, nil
}

// GenerateReport builds and stores a strategic report from all feedback.
// A failed generation is stored too, with status FAILED.
func (s *InsightService) GenerateReport(ctx context.Context, municipalityID string) (*model.StrategicReport, error) {
	m, err := s.directory.Get(municipalityID)
	if err != nil {
		return nil, err
	}
	items, err := s.feedback.ListByMunicipality(ctx, municipalityID, model.FeedbackFilter{}, 0)
	if err != nil {
		return nil, err
	}

	report := &model.StrategicReport{
		ID:             uuid.New().String(),
		MunicipalityID: municipalityID,
		Status:         model.ReportReady,
		Error:          model.AIErrorNone,
		FeedbackCount:  len(items),
		CreatedAt:      s.now(),
	}

	text, err := s.generate(ctx, llm.Request{
		Model:  s.models.report,
		Prompt: reportPrompt(m.Name, items),
	})
	if err != nil {
		report.Status = model.ReportFailed
		report.Error = fallbackKind(err)
		report.Message = msgReportGeneric
		if report.Error == model.AIErrorQuota {
			report.Message = msgReportQuota
		}
		s.logger.Warn("strategic report failed", zap.String("municipality", municipalityID), zap.String("kind", string(report.Error)), zap.Error(err))
	} else {
		report.Text = text
	}

	if err := s.reports.Save(ctx, report); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	return report, nil
}

// LatestReport returns the newest stored report, or nil when none exists
func (s *InsightService) LatestReport(ctx context.Context, municipalityID string) (*model.StrategicReport, error) {
	if _, err := s.directory.Get(municipalityID); err != nil {
		return nil, err
	}
	return s.reports.Latest(ctx, municipalityID)
}

// fallbackKind narrows an error to QUOTA or GENERIC
func fallbackKind(err error) model.AIErrorKind {
	if llm.ClassifyError(err) == model.AIErrorQuota {
		return model.AIErrorQuota
	}
	return model.AIErrorGeneric
}
