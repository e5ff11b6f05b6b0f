package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/symptom_extraction.txt
var symptomExtractionPrompt string

//go:embed template/condition_analysis.txt
var conditionAnalysisPrompt string

//go:embed template/medical_answer.txt
var medicalAnswerPrompt string

// RenderSymptomExtraction renders the extraction prompt for one patient message.
// Rendering goes through the Eino prompt component so prompt callbacks fire.
func RenderSymptomExtraction(ctx context.Context, patientMessage string) ([]*schema.Message, error) {
	return render(ctx, "symptom extraction", symptomExtractionPrompt, map[string]any{
		"patient_message": patientMessage,
	})
}

// RenderConditionAnalysis renders the condition-analysis prompt.
func RenderConditionAnalysis(ctx context.Context, symptoms []string, medicalContext string) ([]*schema.Message, error) {
	return render(ctx, "condition analysis", conditionAnalysisPrompt, map[string]any{
		"symptoms": strings.Join(symptoms, ", "),
		"context":  medicalContext,
	})
}

// RenderMedicalAnswer renders the open question prompt with retrieved
// passages and the chat history.
func RenderMedicalAnswer(ctx context.Context, question, medicalContext, chatHistory string) ([]*schema.Message, error) {
	return render(ctx, "medical answer", medicalAnswerPrompt, map[string]any{
		"question":     question,
		"context":      medicalContext,
		"chat_history": chatHistory,
	})
}

func render(ctx context.Context, name, template string, vars map[string]any) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.UserMessage(strings.TrimSpace(template)),
	)
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, fmt.Errorf("%s prompt render: %w", name, err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return nil, fmt.Errorf("%s prompt render: empty result", name)
	}
	return msgs, nil
}
