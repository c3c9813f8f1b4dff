package server

import (
	"fmt"
	"html"

	"github.com/jrsteele09/go-auth-relay/internal/errors"
)

// successPage is shown in the companion browser after a valid callback. The
// tab closes itself once the user has had a moment to read the message; the
// headless client picks the code up over /access_code.
const successPage = `<!DOCTYPE html>
<html>
<head>
    <title>Authenticated</title>
    <meta charset="utf-8">
</head>
<body>
    <h1>Authenticated!</h1>
    Return back to the device you started the login from.<br>
    This tab will close in 5 seconds...
    <script type="text/javascript">
        setTimeout(window.close, 5000);
    </script>
</body>
</html>`

// errorPage renders a callback failure with actionable guidance. detail is
// HTML-escaped before embedding: the provider's error parameter is
// untrusted input.
func errorPage(heading, detail string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>Authentication Failed</title>
    <meta charset="utf-8">
</head>
<body>
    <h1>%s</h1>
    <p>%s</p>
    <p><a href="/">Click here to try again.</a></p>
</body>
</html>`, html.EscapeString(heading), html.EscapeString(detail))
}

// callbackErrorPage maps a classification error to the page shown in the
// companion browser. providerDetail is only set for provider errors and is
// escaped by errorPage.
func callbackErrorPage(err error, providerDetail string) string {
	switch {
	case errors.Is(err, errors.ErrInvalidState):
		return errorPage("Invalid state", "The login response did not match this session.")
	case errors.Is(err, errors.ErrProviderError):
		return errorPage("Authentication failed", providerDetail)
	default:
		return errorPage("Missing parameters", "The provider's response was incomplete.")
	}
}

// instructionPage renders guidance pages for the client-id registration
// flow. Values are escaped for the same reason as errorPage.
func instructionPage(heading, detail string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>Client Registration</title>
    <meta charset="utf-8">
</head>
<body>
    <h1>%s</h1>
    <p>%s</p>
</body>
</html>`, html.EscapeString(heading), html.EscapeString(detail))
}
