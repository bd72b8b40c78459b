package knowledge

import "divisafe-support/internal/domain"

// Default devuelve una copia nueva de las tablas incorporadas.
// Cada llamada arma mapas propios, asi un overlay YAML no toca a otras instancias.
func Default() *KnowledgeBase {
	return &KnowledgeBase{
		EmotionKeywords: map[domain.Emotion][]string{
			domain.EmotionSad: {
				"sad", "cry", "depressed", "grief", "grieving", "mourn", "heartbroken",
				"lonely", "alone", "miserable", "hopeless", "i miss", "tears",
			},
			domain.EmotionAngry: {
				"angry", "furious", "i hate", "hate him", "hate her", "hatred", "outraged",
				"enraged", "pissed", "unfair", "betrayed", "lied to me", "resent", "so mad",
			},
			domain.EmotionAnxious: {
				"anxious", "anxiety", "worried", "worry", "scared", "nervous", "panic",
				"afraid", "fear", "stressed",
			},
			domain.EmotionHopeful: {
				"hopeful", "i hope", "hoping", "optimistic", "better", "positive",
				"looking forward", "improv", "excited",
			},
			domain.EmotionOverwhelmed: {
				"overwhelm", "too much", "can't handle", "exhausted", "drowning",
				"falling apart", "breaking down",
			},
			domain.EmotionConfused: {
				"confused", "confusing", "lost", "don't know", "uncertain", "unclear",
				"no idea", "not sure",
			},
			domain.EmotionRelieved: {
				"relieved", "relief", "finally free", "weight off", "at peace",
			},
		},
		ContextKeywords: map[domain.Context][]string{
			domain.ContextDivorce: {
				"divorce", "separation", "separated", "split up", "breakup", "break up",
				"my ex", "marriage",
			},
			domain.ContextCustody: {
				"custody", "children", "kids", "parenting", "co-parent", "visitation",
				"my son", "my daughter",
			},
			domain.ContextFinancial: {
				"money", "financial", "finances", "assets", "alimony", "child support",
				"spousal support", "bills", "debt", "mortgage", "afford",
			},
			domain.ContextLegal: {
				"lawyer", "attorney", "court", "legal", "judge", "hearing", "mediation",
				"settlement", "paperwork",
			},
			domain.ContextEmotional: {
				"feel", "emotion", "heart", "mental health",
			},
			domain.ContextRecovery: {
				"moving on", "move on", "healing", "new beginning", "fresh start",
				"rebuild", "therapy", "recover",
			},
		},
		CulturalRules: []CulturalRule{
			{
				Tag:      "arranged_marriage",
				Keywords: []string{"arranged marriage"},
				Message:  "Ending an arranged marriage can involve complex family relationships. It's important to prioritize your mental health and safety.",
				Resources: []string{
					"Cultural-sensitive therapy options",
					"Community support groups",
				},
				Rooms: []string{"cultural-support", "family-mediation"},
			},
			{
				Tag:      "indian_family",
				Keywords: []string{"joint family", "in-laws", "in laws", "dowry", "family honor", "family honour", "indian family", "my elders"},
				Message:  "I understand the complexity of Indian family dynamics during divorce. Joint family opinions and social expectations can add extra pressure.",
				Resources: []string{
					"Indian family counseling services",
					"Cultural-sensitive therapy options",
					"Community support groups",
				},
				Rooms: []string{"cultural-support", "family-mediation"},
			},
			{
				Tag:      "religious_concerns",
				Keywords: []string{"religion", "religious", "church", "temple", "mosque", "my faith", "pray"},
				Message:  "Religious and spiritual concerns during divorce are deeply personal. Many find comfort in their faith during difficult transitions.",
				Resources: []string{
					"Faith-based counseling services",
					"Interfaith support groups",
				},
				Rooms: []string{"spiritual-counseling"},
			},
			{
				Tag:      "social_stigma",
				Keywords: []string{"stigma", "what will people say", "society", "judged", "community pressure"},
				Message:  "Social stigma around divorce can be challenging, especially in traditional communities. Remember that your wellbeing matters most.",
				Resources: []string{
					"Community support groups",
				},
				Rooms: []string{"community-support"},
			},
			{
				Tag:      "extended_family",
				Keywords: []string{"extended family", "relatives", "my parents", "his parents", "her parents"},
				Message:  "Managing relationships with extended family during divorce takes energy. You can set boundaries that protect your wellbeing.",
				Rooms:    []string{"family-mediation"},
			},
			{
				Tag:      "cultural_identity",
				Keywords: []string{"my culture", "cultural identity", "tradition"},
				Message:  "Holding on to your cultural identity while your life changes is possible. Your roots can be a source of strength.",
				Rooms:    []string{"cultural-support"},
			},
		},
		CrisisRules: []domain.CrisisRule{
			{
				ID:         "suicidal_ideation",
				CrisisType: "suicidal",
				Triggers: []string{
					"thinking about suicide", "suicide", "suicidal", "kill myself",
					"want to end it all", "end it all", "end my life", "ending my life",
					"no point in living", "no point living", "point in living",
					"not worth living", "better off dead", "want to die",
					"can't go on", "cant go on", "suicide plan",
				},
				Severity: domain.SeverityCritical,
				Resources: []string{
					"National Suicide Prevention Lifeline: 988",
					"Crisis Text Line: Text HOME to 741741",
					"Emergency Services: 911",
				},
				EscalateToHuman: true,
			},
			{
				ID:         "self_harm",
				CrisisType: "self_harm",
				Triggers: []string{
					"want to hurt myself", "hurt myself", "harm myself", "cutting",
					"overdose", "pills", "bridge",
				},
				Severity: domain.SeverityCritical,
				Resources: []string{
					"National Suicide Prevention Lifeline: 988",
					"Crisis Text Line: Text HOME to 741741",
					"Emergency Services: 911",
				},
				EscalateToHuman: true,
			},
			{
				ID:         "violence_toward_others",
				CrisisType: "violence",
				Triggers: []string{
					"hurt my ex", "hurt my children", "hurt my kids", "kill them",
					"kill him", "kill her", "want to kill", "violent thoughts",
					"make them pay", "planning to hurt", "revenge", "they deserve to die",
				},
				Severity: domain.SeverityCritical,
				Resources: []string{
					"National Domestic Violence Hotline: 1-800-799-7233",
					"Emergency Services: 911",
				},
				EscalateToHuman: true,
			},
			{
				ID:         "severe_depression",
				CrisisType: "severe_depression",
				Triggers: []string{
					"can't take it anymore", "cant take it anymore", "everything is hopeless",
					"nothing matters", "worthless", "life has no meaning", "deep dark hole",
					"no hope", "everyone hates me", "burden to everyone", "failed at everything",
				},
				Severity: domain.SeverityHigh,
				Resources: []string{
					"Mental Health America: 1-800-969-6642",
					"SAMHSA National Helpline: 1-800-662-4357",
					"National Suicide Prevention Lifeline: 988",
				},
			},
		},
		Patterns: []Pattern{
			{Name: "custody_anxiety", Triggers: []string{"children", "custody", "kids", "parenting"}},
			{Name: "financial_stress", Triggers: []string{"money", "financial", "assets", "alimony", "child support"}},
			{Name: "loneliness_grief", Triggers: []string{"alone", "lonely", "i miss", "empty", "lost"}},
			{Name: "anger_resentment", Triggers: []string{"i hate", "angry", "unfair", "betrayed", "lied to"}},
		},
		TherapeuticResponses: map[domain.Emotion][]string{
			domain.EmotionSad: {
				"I can hear the sadness in your words. It's completely natural to feel this way during such a significant life change.",
				"Grief is a normal part of the healing process. Allow yourself to feel these emotions without judgment.",
				"Your sadness shows how much this relationship meant to you. That's not something to be ashamed of.",
			},
			domain.EmotionAngry: {
				"Your anger is understandable and valid. Divorce can bring up intense emotions that need to be processed.",
				"It's okay to feel angry. Let's explore healthy ways to channel these feelings constructively.",
				"Anger often masks other emotions like hurt or fear. What do you think might be underneath this anger?",
			},
			domain.EmotionAnxious: {
				"I can sense the anxiety you're experiencing. Uncertainty about the future is one of the hardest parts of divorce.",
				"Anxiety is your mind's way of trying to prepare for the unknown. Let's work on some grounding techniques.",
				"It's normal to feel anxious when so much is changing. You don't have to face this uncertainty alone.",
			},
			domain.EmotionOverwhelmed: {
				"It sounds like you're carrying a heavy emotional load right now. That's completely understandable.",
				"When everything feels like too much, it can help to break things down into smaller, manageable pieces.",
				"You don't have to handle everything at once. Let's focus on what's most important right now.",
			},
			domain.EmotionHopeful: {
				"I'm encouraged to hear the hope in your voice. This resilience will be a valuable asset moving forward.",
				"Hope is a powerful force for healing. Hold onto that feeling as you navigate this transition.",
				"Your optimism shows incredible strength. How can we build on this positive outlook?",
			},
			domain.EmotionConfused: {
				"Confusion is so common during divorce proceedings. There are many decisions to make and emotions to process.",
				"It's okay to feel lost right now. Clarity often comes gradually as you work through your feelings.",
				"Let's take this one step at a time. What feels like the most pressing concern for you right now?",
			},
			domain.EmotionRelieved: {
				"Feeling relief is completely valid, even during difficult times. It can mean you are making space for yourself.",
				"It sounds like a weight has lifted. It's okay to acknowledge that this change also brings some peace.",
			},
		},
		EmotionalSupport: map[domain.Emotion]string{
			domain.EmotionSad:         "It's okay to feel sad during this transition. Grief is a natural part of the healing process.",
			domain.EmotionAngry:       "Your anger is understandable. Let's channel this energy into positive actions for your future.",
			domain.EmotionAnxious:     "Anxiety about uncertainty is normal. Focus on what you can control today.",
			domain.EmotionHopeful:     "Your hope is a strength that will carry you through this journey.",
			domain.EmotionConfused:    "Confusion is normal when facing big life changes. Take it one step at a time.",
			domain.EmotionOverwhelmed: "When everything feels like too much, remember to breathe and take breaks.",
			domain.EmotionRelieved:    "Feeling relief is completely valid, even during difficult times.",
		},
		ContextResources: map[domain.Context][]string{
			domain.ContextDivorce: {
				"Divorce support groups in your area",
				"Online divorce recovery programs",
				"Books: 'Crazy Time' by Abigail Trafford",
			},
			domain.ContextCustody: {
				"Co-parenting apps and tools",
				"Child custody mediation services",
				"Resources for talking to children about divorce",
			},
			domain.ContextFinancial: {
				"Financial planning for divorce",
				"Divorce financial advisors",
				"Budgeting tools and apps",
			},
			domain.ContextLegal: {
				"Legal aid societies",
				"Divorce attorney consultations",
				"Self-help legal resources",
			},
			domain.ContextEmotional: {
				"Individual therapy services",
				"Support group directories",
				"Mental health apps and tools",
			},
			domain.ContextRecovery: {
				"Post-divorce recovery programs",
				"New beginnings workshops",
				"Personal growth resources",
			},
		},
		CopingStrategies: map[domain.Emotion][]string{
			domain.EmotionSad: {
				"Allow yourself to feel these emotions",
				"Consider journaling about your feelings",
				"Connect with supportive friends or family",
			},
			domain.EmotionAngry: {
				"Try physical exercise to release tension",
				"Practice deep breathing exercises",
				"Take time-outs when feeling overwhelmed",
			},
			domain.EmotionAnxious: {
				"Practice grounding techniques (5-4-3-2-1 method)",
				"Try the 4-7-8 breathing technique",
				"Focus on what you can control today",
			},
			domain.EmotionHopeful: {
				"Continue nurturing this positive outlook",
				"Set small, achievable goals",
				"Share your hope with others who might benefit",
			},
			domain.EmotionConfused: {
				"Make a list of your main concerns",
				"Prioritize the most urgent decisions",
				"Seek guidance from trusted advisors",
			},
			domain.EmotionOverwhelmed: {
				"Break large tasks into smaller steps",
				"Delegate what you can",
				"Schedule regular breaks and self-care",
			},
			domain.EmotionRelieved: {
				"Acknowledge this positive feeling",
				"Use this energy to plan next steps",
				"Consider how to maintain this sense of relief",
			},
		},
		HighRiskSteps: []string{
			"Consider speaking with a mental health professional immediately",
			"Reach out to a trusted friend or family member",
			"Contact a crisis helpline if you're having thoughts of self-harm",
		},
		FollowUpQuestions: map[domain.Emotion][]string{
			domain.EmotionSad: {
				"What do you miss most about your relationship?",
				"What would help you feel supported right now?",
				"What small step could you take toward healing?",
			},
			domain.EmotionAngry: {
				"What aspect of the divorce process is making you feel most angry?",
				"Have you been able to talk to anyone about these feelings?",
				"What would help you feel more in control right now?",
			},
			domain.EmotionAnxious: {
				"What specific aspects of the future worry you most?",
				"What would make you feel more secure during this transition?",
				"Who in your support network can you reach out to?",
			},
			domain.EmotionOverwhelmed: {
				"Which of the things on your plate feels most urgent today?",
				"Is there anything you could set aside or ask someone else to help with?",
			},
			domain.EmotionHopeful: {
				"What is giving you hope right now?",
				"What is one goal you'd like to work toward next?",
			},
			domain.EmotionConfused: {
				"What decision feels most unclear to you right now?",
				"Who could help you think through your options?",
			},
			domain.EmotionRelieved: {
				"What has changed that brought you this sense of relief?",
			},
		},
		RoomSuggestions: map[domain.Emotion][]string{
			domain.EmotionSad:         {"post-divorce-recovery", "emotional-support", "success-stories"},
			domain.EmotionAngry:       {"anger-management", "general-support", "legal-consultation"},
			domain.EmotionAnxious:     {"pre-divorce-counseling", "financial-planning", "co-parenting-support"},
			domain.EmotionOverwhelmed: {"emotional-support", "self-care-sanctuary"},
			domain.EmotionHopeful:     {"new-beginnings", "success-stories"},
			domain.EmotionConfused:    {"general-support", "pre-divorce-counseling"},
			domain.EmotionRelieved:    {"new-beginnings", "personal-transformation"},
		},
		Crisis: CrisisTemplate{
			Message: "I'm very concerned about what you've shared. Your safety is the top priority right now. Please reach out to a crisis helpline immediately or contact emergency services.",
			Support: "You are not alone, and there are people who want to help you through this difficult time.",
			NextSteps: []string{
				"Contact a crisis helpline immediately",
				"Reach out to a trusted friend or family member",
				"Consider going to the nearest emergency room",
				"Stay in the chat - a human counselor is joining shortly",
			},
			FollowUpQuestions: []string{
				"Are you safe right now?",
				"Is there someone who can be with you at the moment?",
			},
			Rooms: []string{"crisis-intervention"},
		},
		CrisisResources: map[string][]string{
			LocaleGlobal: {
				"International Association for Suicide Prevention: https://www.iasp.info/resources/Crisis_Centres/",
				"Crisis Text Line: Text HOME to 741741",
				"Emergency Services: Call your local emergency number",
			},
			"india": {
				"AASRA: +91-9820466726",
				"Sneha India: +91-44-24640050",
				"Vandrevala Foundation: 1860-2662-345",
				"Emergency: 112",
			},
			"us": {
				"National Suicide Prevention Lifeline: 988",
				"Crisis Text Line: Text HOME to 741741",
				"Emergency: 911",
			},
			"eu": {
				"European Emergency Number: 112",
				"Samaritans (UK): 116 123",
				"Crisis helplines vary by country",
			},
		},
		Valence: map[domain.Emotion]float64{
			domain.EmotionSad:         -0.8,
			domain.EmotionAngry:       -0.6,
			domain.EmotionAnxious:     -0.5,
			domain.EmotionHopeful:     0.7,
			domain.EmotionOverwhelmed: -0.7,
			domain.EmotionConfused:    -0.2,
			domain.EmotionRelieved:    0.5,
			domain.EmotionNeutral:     0,
		},
		Arousal: map[domain.Emotion]float64{
			domain.EmotionSad:         0.3,
			domain.EmotionAngry:       0.9,
			domain.EmotionAnxious:     0.8,
			domain.EmotionHopeful:     0.6,
			domain.EmotionOverwhelmed: 0.9,
			domain.EmotionConfused:    0.5,
			domain.EmotionRelieved:    0.3,
			domain.EmotionNeutral:     0.5,
		},
		Thresholds: Thresholds{
			Medium:     0.6,
			High:       0.8,
			Saturation: 5,
		},
		GenericMessage: "I hear that you're going through a difficult time. Your feelings are valid, and you're not alone in this journey.",
		GenericSupport: "Your feelings are valid and you're not alone in this journey.",
		Rooms: []domain.Room{
			{ID: "general-support", Name: "General Support", Description: "Open space for relationship discussions and general support", Category: "general", MaxUsers: 50},
			{ID: "crisis-intervention", Name: "Crisis Intervention", Description: "24/7 emergency emotional support with human counselors", Category: "crisis", MaxUsers: 10, RequiresHuman: true},
			{ID: "emotional-support", Name: "Emotional Support", Description: "Focused emotional support and coping strategies", Category: "emotional", MaxUsers: 40},
			{ID: "anger-management", Name: "Anger Management", Description: "Coping strategies and anger management techniques", Category: "recovery", MaxUsers: 20},
			{ID: "co-parenting-support", Name: "Co-Parenting Support", Description: "Custody, visitation and co-parenting questions", Category: "custody", MaxUsers: 30},
			{ID: "financial-planning", Name: "Financial Planning", Description: "Budgeting, assets and support payments after separation", Category: "financial", MaxUsers: 30},
			{ID: "new-beginnings", Name: "New Beginnings", Description: "For people ready to plan life after divorce", Category: "recovery", MaxUsers: 40},
			{ID: "cultural-support", Name: "Cultural Support", Description: "Family, community and cultural expectations around divorce", Category: "cultural", MaxUsers: 25},
		},
	}
}
