package services

import (
	"context"
	"math/rand/v2"
	"strings"
)

const offlineDisclaimer = "\n\n⚠️ **Disclaimer:** This is for educational purposes only. Always consult healthcare professionals for medical advice."

type offlineCategory struct {
	keywords []string
	answers  []string
}

// Checked in order; the first category with a matching keyword wins.
var offlineCategories = []offlineCategory{
	{
		keywords: []string{"headache", "fever", "pain"},
		answers: []string{
			"I can help analyze symptoms, but remember I'm not a substitute for professional medical advice. Could you describe your symptoms in more detail? Include duration, intensity, and any triggers you've noticed.",
			"For symptom tracking, note the frequency, intensity, and duration. Consider consulting a healthcare provider for persistent issues. Some symptoms that require immediate attention include chest pain, difficulty breathing, or sudden severe pain.",
		},
	},
	{
		keywords: []string{"food", "diet", "eat"},
		answers: []string{
			"A balanced diet should include fruits, vegetables, lean proteins, and whole grains. Consider reducing processed foods and added sugars. For specific nutrition advice, your age, activity level, and health goals would help provide personalized recommendations.",
			"Nutrition plays a vital role in health. Aim for colorful plates with variety, stay hydrated, and consider portion control. If you have specific dietary needs or conditions, consulting a nutritionist can be beneficial.",
		},
	},
	{
		keywords: []string{"exercise", "workout", "fitness"},
		answers: []string{
			"A good fitness routine includes cardio, strength training, and flexibility exercises. Aim for 150 minutes of moderate activity weekly. Remember to warm up before exercise and cool down after. Listen to your body and adjust intensity as needed.",
			"Regular physical activity improves cardiovascular health, strengthens muscles, and boosts mental wellbeing. Start with activities you enjoy, and gradually increase intensity. Consistency is more important than intensity when starting out.",
		},
	},
	{
		keywords: []string{"stress", "anxiety", "mental"},
		answers: []string{
			"Mental health is as important as physical health. Consider practices like meditation, journaling, or talking to a professional. Building a support system and maintaining work-life balance are crucial for mental wellbeing.",
			"Taking care of your mental health includes regular self-care, setting boundaries, and seeking help when needed. Techniques like deep breathing, mindfulness, and maintaining social connections can significantly improve mental wellbeing.",
		},
	},
}

var offlineGeneral = []string{
	"Based on general health guidelines, I recommend maintaining a balanced diet, regular exercise, and 7-9 hours of sleep daily. Proper hydration and stress management are also crucial for overall health.",
	"For optimal health, consider regular check-ups, staying hydrated, and managing stress through mindfulness techniques. Remember to listen to your body and seek professional advice when needed.",
}

var offlineImageAnalyses = []string{
	`Based on the image analysis:

🔍 **Visual Assessment:** The image shows visible symptoms that should be monitored. Without professional examination, I can provide general guidance.

📋 **Recommendations:**
1. Keep the area clean and dry
2. Monitor for changes in size, color, or pain level
3. Avoid scratching or irritating the area
4. Consider taking photos daily to track changes

🏥 **When to Seek Help:**
• If symptoms worsen or spread
• If you develop fever or other systemic symptoms
• If there's no improvement in 2-3 days
• If you're concerned about the appearance

💡 **Note:** For accurate diagnosis, please consult a dermatologist or healthcare provider.`,
	`AI Image Analysis Results:

📊 **Assessment:** The uploaded image requires professional evaluation for accurate diagnosis. Here are general observations:

⚕️ **Possible Considerations:**
• Skin conditions often require in-person examination
• Lighting and image quality affect analysis accuracy
• Multiple factors contribute to skin health

📝 **Next Steps:**
1. Document symptoms with dates and photos
2. Note any itching, pain, or changes
3. Review your medical history with a provider
4. Consider allergy testing if recurrent

🚨 **Important:** This analysis is not a diagnosis. Please see a healthcare professional for proper medical evaluation.`,
}

// OfflineService answers from canned copy without any network call. It is
// used for demos and local development without a provider key.
type OfflineService struct {
	pick func(n int) int
}

func NewOfflineService() *OfflineService {
	return &OfflineService{pick: rand.IntN}
}

// NewOfflineServiceWithPicker fixes the choice among canned answers.
func NewOfflineServiceWithPicker(pick func(n int) int) *OfflineService {
	return &OfflineService{pick: pick}
}

func (s *OfflineService) TextQuery(_ context.Context, prompt string) (string, error) {
	answers := offlineGeneral
	lower := strings.ToLower(prompt)
	for _, cat := range offlineCategories {
		if containsAny(lower, cat.keywords) {
			answers = cat.answers
			break
		}
	}
	return answers[s.pick(len(answers))] + offlineDisclaimer, nil
}

func (s *OfflineService) ImageQuery(_ context.Context, _ []byte, _, _ string) (string, error) {
	return offlineImageAnalyses[s.pick(len(offlineImageAnalyses))], nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
