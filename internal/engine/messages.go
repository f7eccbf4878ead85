package engine

import "fmt"

// Keyboard hints which input affordances the messenger should render
// alongside a reply. The messenger layer maps these to transport-specific
// reply markup.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardRemove
	KeyboardMain
	KeyboardYesNo
	KeyboardBack
	KeyboardDoneBack
	KeyboardMethodBack
)

// Reserved inputs and fixed menu labels the state machine dispatches on.
const (
	CmdStart = "/start"

	BtnYes      = "Yes"
	BtnNo       = "No"
	BtnBack     = "Back"
	BtnDone     = "Done"
	BtnTopup    = "Top up account"
	BtnProfile  = "My profile"
	BtnHelp     = "Help"
	BtnSyriatel = "Syriatel Cash"
)

const (
	msgConsent       = "Do you have a registered cashier account with us?"
	msgWelcomeBack   = "Welcome back!"
	msgAskName       = "Enter your account details.\nFull name (three parts):"
	msgBadName       = "Invalid name. Enter a full three-part name."
	msgAskAge        = "Good.\nNow enter your age (10-100):"
	msgBadAge        = "Invalid age. Enter a number between 10 and 100."
	msgSaved         = "Your details have been saved."
	msgMenu          = "Choose from the menu:"
	msgChooseMethod  = "Choose a top-up method:"
	msgOnlySyriatel  = "Choose 'Syriatel Cash'."
	msgAskAmount     = "Enter the top-up amount (10000 to 1000000, in multiples of 5000):"
	msgBadAmount     = "Invalid amount."
	msgPressDone     = "Press Done after you have sent the transfer."
	msgAskCode       = "Enter the transfer operation code:"
	msgTopupOK       = "Operation successful.\nYour account will be credited within fifteen minutes."
	msgTopupFail     = "Wrong code, or no matching transfer was received in the last 5 minutes. Check and retry."
	msgBackToMenu    = "Back to the main menu."
	msgFinishSignup  = "You cannot go back now. Finish entering your details first."
	msgNeedsRegister = "Please contact support to open an account:\n%s"
	msgHelp          = "Contact us if you run into any problem:\n%s"
)

func paymentInstructions(number, code string) string {
	return fmt.Sprintf("Transfer the amount to number: %s\nUse reference code: %s\nPress Done once the transfer is sent.", number, code)
}

func profileSummary(name string, age, topups int) string {
	return fmt.Sprintf("Name: %s\nAge: %d\nSuccessful top-ups: %d", name, age, topups)
}
