package command

// AckSize is the length of the reply to a binary frame.
const AckSize = 2

var (
	// AckOK acknowledges an executed frame.
	AckOK = []byte("OK")
	// AckFailed replies to a frame which was not executed.
	AckFailed = []byte("NO")
)

// Ack returns the reply for a frame.
func Ack(ok bool) []byte {
	if ok {
		return AckOK
	}
	return AckFailed
}
