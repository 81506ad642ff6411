package nutrition

import (
	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
	"github.com/ZarakiLancelot/NutriSnap/internal/goal"
)

// Notification is a short message the client surfaces as a toast.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (n Notification) empty() bool { return n.Title == "" && n.Message == "" }

func badgeNotification(lang domain.Language, badgeName string) Notification {
	if lang == domain.LanguageEnglish {
		return Notification{Title: "New Badge Unlocked!", Message: badgeName}
	}
	return Notification{Title: "¡Nueva Insignia Desbloqueada!", Message: badgeName}
}

func analysisNotification(lang domain.Language) Notification {
	if lang == domain.LanguageEnglish {
		return Notification{Title: "Analysis Complete!", Message: "+50 XP"}
	}
	return Notification{Title: "¡Análisis Completado!", Message: "+50 XP"}
}

func workoutNotification(lang domain.Language) Notification {
	if lang == domain.LanguageEnglish {
		return Notification{Title: "Workout Logged!", Message: "+30 XP"}
	}
	return Notification{Title: "¡Ejercicio Registrado!", Message: "+30 XP"}
}

func hydrationNotification(lang domain.Language) Notification {
	if lang == domain.LanguageEnglish {
		return Notification{Title: "Hydrated!", Message: "+5 XP"}
	}
	return Notification{Title: "¡Hidratación!", Message: "+5 XP"}
}

func moodNotification(lang domain.Language) Notification {
	if lang == domain.LanguageEnglish {
		return Notification{Title: "Mood Logged!", Message: "+10 XP"}
	}
	return Notification{Title: "¡Estado registrado!", Message: "+10 XP"}
}

func weightNotification(lang domain.Language, feedback goal.Feedback) Notification {
	en := lang == domain.LanguageEnglish
	switch feedback {
	case goal.FeedbackReached:
		if en {
			return Notification{
				Title:   "🎉 GOAL REACHED!",
				Message: "Incredible work! Your discipline has paid off. Your health is at its peak!",
			}
		}
		return Notification{
			Title:   "🎉 ¡META ALCANZADA!",
			Message: "¡Trabajo increíble! Tu disciplina valió la pena. ¡Tu salud está en su mejor momento!",
		}
	case goal.FeedbackProgressing:
		if en {
			return Notification{
				Title:   "Great Progress! 📉",
				Message: "Moving in the right direction. Keep it up, your heart thanks you.",
			}
		}
		return Notification{
			Title:   "¡Buen Progreso! 📉",
			Message: "Vas en la dirección correcta. Sigue así, tu corazón te lo agradece.",
		}
	case goal.FeedbackStalled:
		if en {
			return Notification{
				Title:   "Weight Logged",
				Message: "Steady as a rock. Consistency is key, but let's try to push a bit more.",
			}
		}
		return Notification{
			Title:   "Peso Registrado",
			Message: "Estable como una roca. La constancia es clave, pero intentemos empujar un poco más.",
		}
	case goal.FeedbackRegressing:
		if en {
			return Notification{
				Title:   "Watch Out! 👀",
				Message: "Small step back. Don't lose focus, remember why you started!",
			}
		}
		return Notification{
			Title:   "¡Ojo ahí! 👀",
			Message: "Un pequeño paso atrás. ¡No pierdas el foco, recuerda por qué empezaste!",
		}
	default:
		if en {
			return Notification{
				Title:   "Watch Out! 👀",
				Message: "Whoa! Significant deviation. Let's get strict with the diet today. Your health needs you!",
			}
		}
		return Notification{
			Title:   "¡Ojo ahí! 👀",
			Message: "¡Epa! Desviación importante. Pongámonos estrictos con la dieta hoy. ¡Tu salud te necesita!",
		}
	}
}
