package apperr

type Condition struct {
	Kind    Kind
	Code    string
	Message string
}

var (
	GenericError = Condition{KindUnexpected, "GEN-001", "An unexpected error occurred"}

	// signup
	UserNameTaken = Condition{KindDuplicateIdentity, "SGR-001", "Try any other Username, this Username has already been taken"}
	EmailTaken    = Condition{KindDuplicateIdentity, "SGR-002", "This user has already been registered, try with any other emailId"}

	// signin
	UserNameNotFound     = Condition{KindInvalidCredentials, "ATH-001", "This username does not exist"}
	WrongPassword        = Condition{KindInvalidCredentials, "ATH-002", "Password failed"}
	MalformedCredentials = Condition{KindInvalidCredentials, "ATH-003", "Use valid authorization format <Basic base64(username password)>"}

	// signout
	SignoutNotSignedIn = Condition{KindNotSignedIn, "SGR-001", "User is not Signed in"}

	// session resolution
	NotSignedIn    = Condition{KindNotSignedIn, "ATHR-001", "User has not signed in"}
	SessionExpired = Condition{KindSessionExpired, "ATHR-002", "User is signed out"}

	// user profile / sessions
	ProfileSignedOut  = Condition{KindSessionExpired, "ATHR-002", "User is signed out.Sign in first to get user details"}
	SessionsSignedOut = Condition{KindSessionExpired, "ATHR-002", "User is signed out.Sign in first to list sessions"}
	UserNotFound      = Condition{KindNotFound, "USR-001", "User with entered uuid does not exist"}

	// user delete
	UserDeleteSignedOut    = Condition{KindSessionExpired, "ATHR-002", "User is signed out"}
	UserDeleteUnauthorized = Condition{KindForbidden, "ATHR-003", "Unauthorized Access, Entered user is not an admin"}
	UserDeleteNotFound     = Condition{KindNotFound, "USR-001", "User with entered uuid to be deleted does not exist"}

	// questions
	QuestionCreateSignedOut    = Condition{KindSessionExpired, "ATHR-002", "User is signed out.Sign in first to post a question"}
	QuestionGetAllSignedOut    = Condition{KindSessionExpired, "ATHR-002", "User is signed out.Sign in first to get all questions"}
	QuestionEditSignedOut      = Condition{KindSessionExpired, "ATHR-002", "User is signed out.Sign in first to edit the question"}
	QuestionEditUnauthorized   = Condition{KindForbidden, "ATHR-003", "Only the question owner can edit the question"}
	QuestionNotFound           = Condition{KindNotFound, "QUES-001", "Entered question uuid does not exist"}
	QuestionDeleteSignedOut    = Condition{KindSessionExpired, "ATHR-002", "User is signed out.Sign in first to delete a question"}
	QuestionDeleteUnauthorized = Condition{KindForbidden, "ATHR-003", "Only the question owner or admin can delete the question"}
	QuestionByUserSignedOut    = Condition{KindSessionExpired, "ATHR-002", "User is signed out.Sign in first to get all questions posted by a specific user"}
	QuestionByUserNotFound     = Condition{KindNotFound, "USR-001", "User with entered uuid whose question details are to be seen does not exist"}

	// answers
	AnswerCreateQuestionInvalid = Condition{KindNotFound, "QUES-001", "The question entered is invalid"}
	AnswerCreateSignedOut       = Condition{KindSessionExpired, "ATHR-002", "User is signed out.Sign in first to post an answer"}
	AnswerEditSignedOut         = Condition{KindSessionExpired, "ATHR-002", "User is signed out.Sign in first to edit an answer"}
	AnswerEditUnauthorized      = Condition{KindForbidden, "ATHR-003", "Only the answer owner can edit the answer"}
	AnswerNotFound              = Condition{KindNotFound, "ANS-001", "Entered answer uuid does not exist"}
	AnswerDeleteSignedOut       = Condition{KindSessionExpired, "ATHR-002", "User is signed out.Sign in first to delete an answer"}
	AnswerDeleteUnauthorized    = Condition{KindForbidden, "ATHR-003", "Only the answer owner or admin can delete the answer"}
	AnswerGetSignedOut          = Condition{KindSessionExpired, "ATHR-002", "User is signed out.Sign in first to get the answers"}
	AnswerGetQuestionNotFound   = Condition{KindNotFound, "QUES-001", "The question with entered uuid whose details are to be seen does not exist"}
)
