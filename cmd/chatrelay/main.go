// chatrelay serves a chatbot function that relays a prompt to the
// OpenRouter chat-completion API and returns the model's reply.
//
// Usage:
//
//	# Serve the function at /.netlify/functions/chatbot
//	chatrelay serve
//
//	# Serve with a config file, reloading the log level on change
//	chatrelay serve --config chatrelay.yaml --watch
//
//	# Run one invocation against the real upstream
//	AIunclesamAPIkey=sk-or-... chatrelay invoke --prompt "Hello"
//
//	# Show version information
//	chatrelay version
package main

func main() {
	Execute()
}
