package apierr

// UserMessage returns text suitable for an end user. Only KindServer exposes
// text the server wrote; every other kind maps to a fixed sentence.
func UserMessage(err error) string {
	e := From(err)
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindServer:
		if e.Message == "" {
			return GenericServerMessage
		}
		return e.Message
	case KindCouldNotStoreToken:
		return "Signed in, but the credential could not be saved to the system keyring"
	case KindMissingToken:
		return "Not signed in. Run 'scrap auth login' first"
	case KindNoNetwork:
		return "No network connection"
	case KindServerUnreachable:
		return "The server could not be reached"
	case KindParse:
		return "The request could not be encoded"
	case KindUnspecifiedTransport:
		return "The request failed before the server answered"
	default:
		return "Something went wrong"
	}
}
