package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

const (
	targetURL     = "http://localhost:8080/api/orders"
	productID     = "P1"
	totalRequests = 50
	// Every rejectEvery-th request carries quantity 0 to exercise the
	// rejection path.
	rejectEvery = 5
)

type placeOrderRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func main() {
	client := &http.Client{Timeout: 5 * time.Second}

	var placedCount atomic.Int32
	var rejectedCount atomic.Int32
	var errorCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			quantity := 1
			if i%rejectEvery == 0 {
				quantity = 0
			}

			body, err := json.Marshal(placeOrderRequest{ProductID: productID, Quantity: quantity})
			if err != nil {
				log.Printf("marshal failed: %v", err)
				errorCount.Add(1)
				return
			}

			resp, err := client.Post(targetURL, "application/json", bytes.NewReader(body))
			if err != nil {
				log.Printf("request failed: %v", err)
				errorCount.Add(1)
				return
			}
			defer resp.Body.Close()

			switch resp.StatusCode {
			case http.StatusOK:
				placedCount.Add(1)
			case http.StatusBadRequest:
				rejectedCount.Add(1)
			default:
				log.Printf("unexpected status: %d", resp.StatusCode)
				errorCount.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	expectedRejected := int32((totalRequests + rejectEvery - 1) / rejectEvery)
	expectedPlaced := int32(totalRequests) - expectedRejected

	fmt.Println("========== LOAD GENERATOR RESULTS ==========")
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Placed:           %d\n", placedCount.Load())
	fmt.Printf("Rejected:         %d\n", rejectedCount.Load())
	fmt.Printf("Errors:           %d\n", errorCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("============================================")

	if placedCount.Load() == expectedPlaced && rejectedCount.Load() == expectedRejected {
		fmt.Printf("PASS: %d placed, %d rejected\n", expectedPlaced, expectedRejected)
	} else {
		fmt.Printf("FAIL: Expected %d placed/%d rejected, got %d/%d\n",
			expectedPlaced, expectedRejected, placedCount.Load(), rejectedCount.Load())
	}
}
