package domain

// DefaultBankID names the shipped question bank.
const DefaultBankID = "ieee"

// DefaultBank returns a fresh copy of the shipped IEEE question bank.
func DefaultBank() []Question {
	return []Question{
		{
			ID:       1,
			Question: "What does IEEE stand for?",
			Options: []string{
				"Institute of Electrical and Electronics Engineers",
				"International Electrical Engineers",
				"Institute of Electronic Engineers",
				"International Electronics Engineers",
			},
			CorrectAnswer: 0,
			Points:        10,
		},
		{
			ID:            2,
			Question:      "When was IEEE founded?",
			Options:       []string{"1963", "1884", "1950", "1975"},
			CorrectAnswer: 0,
			Points:        10,
		},
		{
			ID:       3,
			Question: "What is the IEEE motto?",
			Options: []string{
				"Advancing Technology for Humanity",
				"Engineering the Future",
				"Innovation Through Technology",
				"Technology for All",
			},
			CorrectAnswer: 0,
			Points:        10,
		},
		{
			ID:            4,
			Question:      "How many IEEE members are there worldwide approximately?",
			Options:       []string{"200,000", "300,000", "400,000", "500,000"},
			CorrectAnswer: 2,
			Points:        10,
		},
		{
			ID:            5,
			Question:      "What is IEEE's most cited publication?",
			Options:       []string{"IEEE Spectrum", "IEEE Transactions", "IEEE Computer", "IEEE Communications"},
			CorrectAnswer: 1,
			Points:        10,
		},
		{
			ID:            6,
			Question:      "In how many countries does IEEE operate?",
			Options:       []string{"150+", "160+", "170+", "180+"},
			CorrectAnswer: 2,
			Points:        10,
		},
		{
			ID:       7,
			Question: "What does IEEE Day celebrate?",
			Options: []string{
				"First IEEE meeting",
				"First telegraph message",
				"IEEE founding",
				"First electrical patent",
			},
			CorrectAnswer: 1,
			Points:        10,
		},
		{
			ID:            8,
			Question:      "Which IEEE standard defines Ethernet?",
			Options:       []string{"802.3", "802.11", "802.15", "802.16"},
			CorrectAnswer: 0,
			Points:        15,
		},
		{
			ID:       9,
			Question: "What is IEEE's vision?",
			Options: []string{
				"Engineering Excellence",
				"Global Technology Leadership",
				"IEEE will be essential to the global technical community",
				"Innovation for Tomorrow",
			},
			CorrectAnswer: 2,
			Points:        15,
		},
		{
			ID:            10,
			Question:      "Which programming language was developed by IEEE member?",
			Options:       []string{"Java", "Python", "C++", "JavaScript"},
			CorrectAnswer: 2,
			Points:        15,
		},
	}
}
