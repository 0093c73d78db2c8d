package seed

import "lingo-quiz/internal/models"

func choice(prompt, answer string, options ...string) ExerciseSeed {
	return ExerciseSeed{Type: models.MultipleChoice, Prompt: prompt, Options: options, Answer: answer}
}

func text(prompt, answer string) ExerciseSeed {
	return ExerciseSeed{Type: models.FreeText, Prompt: prompt, Answer: answer}
}

// Demo is the demo catalog. "Greetings" and "Numbers" share order 1 so clients
// can show that ties keep the service order.
var Demo = []CourseSeed{
	{
		Name: "Spanish",
		Code: "es",
		Lessons: []LessonSeed{
			{
				Order: 1,
				Title: "Greetings",
				Exercises: []ExerciseSeed{
					choice("How do you say \"hello\"?", "hola", "hola", "adiós", "gracias"),
					text("Translate: good morning", "buenos días"),
					choice("\"Gracias\" means...", "thank you", "please", "thank you", "goodbye"),
				},
			},
			{
				Order: 1,
				Title: "Numbers",
				Exercises: []ExerciseSeed{
					text("Write the number 3 in Spanish", "tres"),
					choice("Which one is \"ten\"?", "diez", "dos", "doce", "diez"),
				},
			},
			{
				Order: 2,
				Title: "Food",
				Exercises: []ExerciseSeed{
					choice("Translate: apple", "manzana", "manzana", "pera", "uva"),
					text("Translate: bread", "pan"),
					text("Translate: I want water", "quiero agua"),
				},
			},
		},
	},
	{
		Name: "French",
		Code: "fr",
		Lessons: []LessonSeed{
			{
				Order: 1,
				Title: "Bonjour",
				Exercises: []ExerciseSeed{
					text("Translate: hello", "bonjour"),
					choice("\"Merci\" means...", "thank you", "thank you", "sorry", "hello"),
				},
			},
			{
				Order: 2,
				Title: "Café",
				Exercises: []ExerciseSeed{
					text("Translate: a coffee, please", "un café, s'il vous plaît"),
				},
			},
		},
	},
}
