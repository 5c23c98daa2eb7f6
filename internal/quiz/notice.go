package quiz

// Notices shown to the user on the quiz screen.
const (
	NoticeSelectAnswer  = "Please select an answer to continue"
	NoticeNextQuestion  = "Next Question!"
	NoticeLastQuestion  = "No more questions!"
	NoticePrevQuestion  = "Previous Question!"
	NoticeFirstQuestion = "This is the first question!"
)
