package services

type catalogSeed struct {
	questionnaire *Questionnaire
	questions     []*Question
}

func defaultCatalogs() []catalogSeed {
	return []catalogSeed{cognitiveCatalog(), riasecCatalog()}
}

func cognitiveCatalog() catalogSeed {
	qn := &Questionnaire{ID: "QN-COG-1", Kind: "cognitive", Version: 1}
	mk := func(id string, order int, en, fr string, opts [4]QuestionOption) *Question {
		return &Question{
			ID:              id,
			QuestionnaireID: qn.ID,
			Order:           order,
			StemI18n:        map[string]string{"en": en, "fr": fr},
			Options:         opts[:],
		}
	}
	opt := func(en, fr, dim string, w int) QuestionOption {
		return QuestionOption{LabelI18n: map[string]string{"en": en, "fr": fr}, Dimension: dim, Weight: w}
	}
	questions := []*Question{
		mk("CQ1", 1,
			"When you discover a new tool, what do you notice first?",
			"Quand vous découvrez un nouvel outil, que remarquez-vous en premier ?",
			[4]QuestionOption{
				opt("How it is structured", "Sa structure", "form", 4),
				opt("How it looks", "Son apparence", "color", 3),
				opt("How it feels to handle", "Sa prise en main", "volume", 3),
				opt("How it is described", "Comment on le décrit", "sound", 2),
			}),
		mk("CQ2", 2,
			"You remember a route best by…",
			"Vous mémorisez un trajet surtout par…",
			[4]QuestionOption{
				opt("The sequence of turns", "La séquence des virages", "form", 3),
				opt("Landmarks and colors", "Les repères et couleurs", "color", 4),
				opt("The distances and spaces", "Les distances et volumes", "volume", 4),
				opt("Spoken directions", "Les indications orales", "sound", 3),
			}),
		mk("CQ3", 3,
			"A good explanation mostly needs…",
			"Une bonne explication repose surtout sur…",
			[4]QuestionOption{
				opt("A clear plan", "Un plan clair", "form", 5),
				opt("A striking image", "Une image marquante", "color", 3),
				opt("A working demo", "Une démonstration concrète", "volume", 4),
				opt("A well-told story", "Un récit bien raconté", "sound", 4),
			}),
		mk("CQ4", 4,
			"Under time pressure you rely on…",
			"Sous pression, vous vous appuyez sur…",
			[4]QuestionOption{
				opt("Checklists and order", "Des listes et de l'ordre", "form", 4),
				opt("Instinct for the situation", "L'intuition de la situation", "color", 4),
				opt("Muscle memory", "Les automatismes gestuels", "volume", 3),
				opt("Talking it through", "La verbalisation", "sound", 3),
			}),
		mk("CQ5", 5,
			"What makes a presentation convincing?",
			"Qu'est-ce qui rend une présentation convaincante ?",
			[4]QuestionOption{
				opt("Rigorous logic", "Une logique rigoureuse", "form", 5),
				opt("Strong visuals", "Des visuels forts", "color", 4),
				opt("Tangible examples", "Des exemples tangibles", "volume", 3),
				opt("The speaker's voice", "La voix de l'orateur", "sound", 4),
			}),
		mk("CQ6", 6,
			"When assembling furniture you…",
			"Pour monter un meuble, vous…",
			[4]QuestionOption{
				opt("Follow the manual step by step", "Suivez la notice pas à pas", "form", 4),
				opt("Match the pictures", "Comparez avec les images", "color", 3),
				opt("Try the parts directly", "Essayez les pièces directement", "volume", 5),
				opt("Prefer someone reading the steps aloud", "Préférez qu'on lise les étapes", "sound", 2),
			}),
		mk("CQ7", 7,
			"A new idea sticks with you when…",
			"Une idée nouvelle vous reste quand…",
			[4]QuestionOption{
				opt("It fits a framework you know", "Elle s'insère dans un cadre connu", "form", 3),
				opt("It paints a vivid picture", "Elle évoque une image vive", "color", 5),
				opt("You can manipulate it", "Vous pouvez la manipuler", "volume", 3),
				opt("You hear it explained", "Vous l'entendez expliquée", "sound", 4),
			}),
		mk("CQ8", 8,
			"Your notes tend to be…",
			"Vos notes ressemblent plutôt à…",
			[4]QuestionOption{
				opt("Outlines and numbering", "Des plans numérotés", "form", 4),
				opt("Sketches and highlights", "Des croquis surlignés", "color", 4),
				opt("Diagrams of how things connect", "Des schémas de connexions", "volume", 4),
				opt("Phrases you repeat to yourself", "Des phrases à se répéter", "sound", 3),
			}),
		mk("CQ9", 9,
			"To check a result you…",
			"Pour vérifier un résultat, vous…",
			[4]QuestionOption{
				opt("Re-derive it formally", "Refaites le raisonnement", "form", 5),
				opt("Scan it for anomalies", "Cherchez les anomalies visuelles", "color", 3),
				opt("Test it in practice", "Le testez en conditions réelles", "volume", 4),
				opt("Explain it out loud", "L'expliquez à voix haute", "sound", 3),
			}),
		mk("CQ10", 10,
			"Free time ideally involves…",
			"Votre temps libre idéal implique…",
			[4]QuestionOption{
				opt("Puzzles and strategy", "Casse-têtes et stratégie", "form", 3),
				opt("Galleries, film, design", "Expos, cinéma, design", "color", 4),
				opt("Building or sport", "Bricolage ou sport", "volume", 4),
				opt("Music or podcasts", "Musique ou podcasts", "sound", 5),
			}),
	}
	return catalogSeed{questionnaire: qn, questions: questions}
}

func riasecCatalog() catalogSeed {
	qn := &Questionnaire{ID: "QN-RIASEC-1", Kind: "riasec", Version: 1}
	mk := func(id string, order int, cat, en, fr string) *Question {
		return &Question{
			ID:              id,
			QuestionnaireID: qn.ID,
			Order:           order,
			StemI18n:        map[string]string{"en": en, "fr": fr},
			Category:        cat,
		}
	}
	questions := []*Question{
		mk("RQ1", 1, "R", "I enjoy repairing or building physical things.", "J'aime réparer ou construire des objets."),
		mk("RQ2", 2, "R", "Working outdoors or with machines appeals to me.", "Travailler dehors ou avec des machines m'attire."),
		mk("RQ3", 3, "I", "I like digging into why something works.", "J'aime comprendre pourquoi quelque chose fonctionne."),
		mk("RQ4", 4, "I", "Analyzing data to answer a question satisfies me.", "Analyser des données pour répondre à une question me satisfait."),
		mk("RQ5", 5, "A", "I look for chances to create something original.", "Je cherche des occasions de créer quelque chose d'original."),
		mk("RQ6", 6, "A", "Unstructured, expressive work suits me.", "Un travail libre et expressif me convient."),
		mk("RQ7", 7, "S", "Helping someone learn or improve energizes me.", "Aider quelqu'un à apprendre ou progresser me stimule."),
		mk("RQ8", 8, "S", "I am drawn to roles centered on people.", "Les métiers centrés sur l'humain m'attirent."),
		mk("RQ9", 9, "E", "I like convincing others and leading projects.", "J'aime convaincre et mener des projets."),
		mk("RQ10", 10, "E", "Taking commercial risks excites me.", "Prendre des risques commerciaux me motive."),
		mk("RQ11", 11, "C", "I keep records organized and precise.", "Je garde mes dossiers organisés et précis."),
		mk("RQ12", 12, "C", "Clear procedures make work satisfying.", "Des procédures claires rendent le travail satisfaisant."),
	}
	return catalogSeed{questionnaire: qn, questions: questions}
}
