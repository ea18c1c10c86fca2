package chat

import "healthguard-backend/internal/models"

// DefaultImagePrompt is the user message body of an image send without a
// description.
const DefaultImagePrompt = "Analyze this medical image"

const CredentialFallback = `**🔑 API Key Required**

To get real AI responses:

### **Step 1: Get FREE Gemini API Key**
1. Go to: **https://makersuite.google.com/app/apikey**
2. Sign in with Google account
3. Click **"Create API Key"**
4. Copy your FREE key (starts with AIza...)

### **Step 2: Update Environment Variable**
Add to the server's **.env** file:
` + "```" + `
GEMINI_API_KEY=your_key_here
` + "```" + `
Using OpenAI instead? Set **PROVIDER=openai** and **OPENAI_API_KEY**.

### **Step 3: Restart & Deploy**
Restart the server or redeploy.

**Gemini API is FREE and works instantly!**`

const TransientFallback = `**Temporary Issue**

I'm having trouble processing your request. Please try again in a moment.

For immediate health concerns, consult a healthcare professional.`

const ImageFallback = `**🖼️ Medical Image Guidance**

For proper medical assessment of images:

**What to do:**
1. **Consult a doctor** for accurate diagnosis
2. **Take clear photos** with good lighting
3. **Note symptoms** and timeline
4. **Monitor changes** over time

**Common medical images include:**
• Skin conditions (rashes, moles)
• Injuries (bruises, cuts)
• Eye issues
• Oral health concerns

**⚠️ Important:** AI cannot replace medical diagnosis. Always seek professional healthcare evaluation.`

const WelcomeMessage = `**👋 Welcome to HealthGuard AI**

I'm your AI health assistant. I can help with:

• **Symptom analysis** - Headaches, fever, pain, etc.
• **Medication information** - Side effects, dosages, interactions
• **Nutrition advice** - Diet plans, healthy eating habits
• **Mental health** - Stress, anxiety, sleep issues
• **Fitness guidance** - Exercise routines, recovery
• **General health questions** - Medical information

**⚠️ Medical Disclaimer:** I provide health information for educational purposes only. Always consult healthcare professionals for medical advice, diagnosis, or treatment.

**How can I assist you today?**`

const EmergencyGuidance = `**🚨 EMERGENCY MEDICAL GUIDANCE**

**CALL EMERGENCY SERVICES IMMEDIATELY FOR:**

**Life-Threatening Conditions:**
• Chest pain or pressure (possible heart attack)
• Difficulty breathing or shortness of breath
• Severe, uncontrolled bleeding
• Sudden weakness, numbness, or paralysis (stroke symptoms)
• Loss of consciousness
• Severe allergic reaction with swelling/difficulty breathing
• Suspected poisoning or overdose
• Severe burns or trauma
• Suicidal thoughts or self-harm intentions

**Stroke Recognition (BE FAST):**
• **B**alance - Sudden dizziness, loss of balance
• **E**yes - Sudden vision changes
• **F**ace - Drooping on one side
• **A**rms - Weakness in one arm
• **S**peech - Slurred or strange speech
• **T**ime - Call emergency immediately

**While Waiting for Help:**
1. **Stay Calm** - Your calmness helps the patient
2. **Do NOT Move** unless in immediate danger
3. **Check Responsiveness**
4. **Control Bleeding** with clean cloth and pressure
5. **Do NOT Give** food, drink, or medication
6. **Follow Dispatcher Instructions**

**Global Emergency Numbers:**
• **USA:** 911
• **Europe:** 112
• **UK:** 999 or 112
• **Australia:** 000
• **New Zealand:** 111
• **Japan:** 119
• **India:** 112 or 102

**Mental Health Crisis:**
• **USA:** 988 Suicide & Crisis Lifeline
• **International:** Find local crisis hotlines

⚠️ **This AI cannot provide emergency care. In life-threatening situations, call emergency services immediately.**`

var QuickActions = []models.QuickAction{
	{Label: "What is Cancer?", Question: "What is cancer? Explain symptoms, types, and prevention."},
	{Label: "Diabetes Info", Question: "What is diabetes? Types, symptoms, and management."},
	{Label: "Healthy Diet", Question: "What is a balanced diet for good health?"},
	{Label: "Anxiety Help", Question: "What are symptoms of anxiety and how to manage it?"},
	{Label: "Exercise Benefits", Question: "Health benefits of regular exercise"},
	{Label: "COVID-19 Info", Question: "Current COVID-19 symptoms and prevention"},
}
