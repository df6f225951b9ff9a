package conversation

// User-facing message templates. Kept in one place so the tone stays
// consistent across flows.
const (
	msgGreeting = "Hi! I keep your vocabulary flashcards.\n" +
		"/add — add a word\n" +
		"/study — start a quiz round\n" +
		"/list — show your deck\n" +
		"/import — import a shared collection\n" +
		"/delete — remove a word (or the whole deck)\n" +
		"/stats — your level and score\n" +
		"/cancel — abort the current step"

	msgIdleHint = "I'm not sure what to do with that. Try /add, /study or /list."

	msgUnknownCommand = "I don't know that command. Send /start for the list."

	msgAskWord               = "Send me the word you want to add."
	msgInvalidWord           = "That doesn't look like a word I can store: only letters, spaces, hyphens and apostrophes. Try again."
	msgAlreadyInDeck         = "%q is already in your deck."
	msgAskTranslation        = "Now send the translation for %q."
	msgAskTranslationPrefill = "Now send the translation for %q, or pick one of the known ones."
	msgCardAdded             = "Added: %s — %s"

	msgAskDeleteTarget = "Which word should I delete? Send the word, or ALL to wipe the whole deck."
	msgDeleteMiss      = "%q is not in your deck."
	msgDeleted         = "Deleted %q."
	msgDeckWiped       = "Removed %d cards. Your deck is empty now."

	msgDeckEmpty = "Your deck is empty. Add words with /add or /import a collection."

	msgNoCollections     = "There are no shared collections yet."
	msgAskImportChoice   = "Pick a collection to import:"
	msgUnknownCollection = "I don't know that collection. Pick one from the list."
	msgImported          = "Imported %d new cards from %q."
	msgImportedNothing   = "You already own every card in %q."

	msgNotEnoughCards  = "You need more than %d cards to study and you have %d. Add more with /add or /import."
	msgQuizWord        = "Translate this word: %s"
	msgQuizTranslation = "Which word matches: %s"
	msgStudyCorrect    = "Correct!"
	msgStudyWrong      = "Not quite. The answer was: %s"
	msgLevelUp         = "Level up! You are now level %d."
	msgStudyAgain      = "Send /study for another round."

	msgStats = "Level %d, score %d, %d cards in your deck."

	msgCancelled   = "Okay, cancelled."
	msgNothingToDo = "Nothing to cancel."
)

// deleteAllToken is the literal reply that wipes the whole deck.
const deleteAllToken = "ALL"
