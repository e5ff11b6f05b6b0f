package conversation

import (
	"fmt"
	"strings"

	"github.com/medical-triage/server/internal/agent/recommender"
)

// WelcomeMessage opens every session. It is shown to the user but is not part
// of the transcript.
const WelcomeMessage = "Hello! I'm a virtual medical assistant. I can help you identify possible " +
	"conditions based on your symptoms. Remember that I'm not a doctor and my suggestions " +
	"don't replace a professional diagnosis. How can I help you today?"

const (
	farewellMessage = "It has been a pleasure to help you. Remember that it is always important to " +
		"consult a medical professional for a proper diagnosis. Take care and see you soon!"

	askSymptomsMessage = "To help you better, I need to know your symptoms. Could you describe how you " +
		"feel? For example, are you in pain, do you have a fever or other symptoms?"

	softDeclineMessage = "I understand. If at any point you need help with symptoms or have medical " +
		"questions, I'm here to help."

	unclearSymptomsMessage = "I couldn't clearly identify your symptoms. Could you describe in more detail " +
		"how you feel? For example, whether you have pain, fever, dizziness or other specific symptoms."

	escalationMessage = "I still couldn't identify your symptoms clearly. It may be best to see a general " +
		"practitioner, who can examine you in person and refer you to the right specialist. You can " +
		"also try describing your symptoms again in your own words."

	conditionsHeader = "Based on your symptoms, it could be:\n"
	conditionsFooter = "\nRemember that this is not a medical diagnosis. Would you like me to recommend " +
		"specialists to consult?"

	declineRecommendationMessage = "Understood. I hope the information I provided was helpful. If you " +
		"need anything else in the future, don't hesitate to ask me."

	recommendHeader = "I would recommend consulting the following specialists:\n"

	generalPractitionerMessage = "For your symptoms, I would recommend first seeing a general " +
		"practitioner who can assess you and refer you to the right specialist if needed."

	moreHeader = "You could also consider consulting:\n"

	noMoreRecommendationsMessage = "I have no more specific specialist recommendations for your current " +
		"symptoms. If you have other symptoms or concerns you haven't mentioned, let me know so I can " +
		"advise you better."

	askOtherSymptomsMessage = "I understand. Is there any other symptom you would like to tell me about?"

	unavailableMessage = "I'm sorry, the service is temporarily unavailable. Please try again in a moment."
)

const maxListedConditions = 3

func formatConditions(conditions []string) string {
	var b strings.Builder
	b.WriteString(conditionsHeader)
	for i, c := range conditions {
		if i == maxListedConditions {
			break
		}
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString(conditionsFooter)
	return b.String()
}

func formatRecommendations(header string, recs []recommender.Recommendation) string {
	var b strings.Builder
	b.WriteString(header)
	for _, r := range recs {
		fmt.Fprintf(&b, "- %s: %s\n", r.Specialty, r.Indication)
	}
	return b.String()
}
