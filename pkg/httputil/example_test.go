package httputil_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/treesquares/treesquares/pkg/httputil"
)

func ExampleRetry() {
	attempt := 0
	err := httputil.Retry(context.Background(), 3, time.Millisecond, func() error {
		attempt++
		if attempt < 3 {
			return httputil.Retryable(errors.New("503 from api.php"))
		}
		return nil
	})
	fmt.Println("attempts:", attempt, "error:", err)
	// Output:
	// attempts: 3 error: <nil>
}
