package invitecode

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samborkent/uuidv7"
)

// Generate builds the opaque code embedded in a signup invite link. The
// uuid makes every invite link single-purpose even when the same address
// is invited twice.
func Generate(email string) string {
	uniqueID := uuidv7.New()

	code := fmt.Sprintf("%s|%s", email, uniqueID.String())

	return base64.StdEncoding.EncodeToString([]byte(code))
}

// Decode recovers the invited email and the unique id from a code.
func Decode(code string) (email, uniqueID string, err error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return "", "", err
	}
	res := strings.Split(string(decodedBytes), "|")
	if len(res) != 2 {
		return "", "", fmt.Errorf("not correct format")
	}
	return res[0], res[1], nil
}
