package mqtt

import "fmt"

func TopicTerminalOnline(prefix string) string {
	return fmt.Sprintf("%s/terminal/+/online", prefix)
}

func TopicTerminalHeartbeat(prefix string) string {
	return fmt.Sprintf("%s/terminal/+/heartbeat", prefix)
}

func TopicTerminalCapabilities(prefix string) string {
	return fmt.Sprintf("%s/terminal/+/capabilities", prefix)
}

func TopicTerminalTranscript(prefix string) string {
	return fmt.Sprintf("%s/terminal/+/transcript/+", prefix)
}

func TopicListen(prefix, terminalID, requestID string) string {
	return fmt.Sprintf("%s/terminal/%s/listen/%s", prefix, terminalID, requestID)
}

func TopicTranscript(prefix, terminalID, requestID string) string {
	return fmt.Sprintf("%s/terminal/%s/transcript/%s", prefix, terminalID, requestID)
}

func TopicSpeak(prefix, terminalID string) string {
	return fmt.Sprintf("%s/terminal/%s/speak", prefix, terminalID)
}

func TopicOnline(prefix, terminalID string) string {
	return fmt.Sprintf("%s/terminal/%s/online", prefix, terminalID)
}

func TopicHeartbeat(prefix, terminalID string) string {
	return fmt.Sprintf("%s/terminal/%s/heartbeat", prefix, terminalID)
}

func TopicCapabilities(prefix, terminalID string) string {
	return fmt.Sprintf("%s/terminal/%s/capabilities", prefix, terminalID)
}
