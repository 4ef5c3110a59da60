// Package errors provides examples of structured error handling in scour.
package errors_test

import (
	"fmt"
	"io"

	"github.com/scourdata/scour/pkg/errors"
)

// Example demonstrates basic error creation and wrapping.
func Example() {
	// Create a new error with type
	err := errors.New(errors.ErrorTypeConfig, "unknown outlier method")

	// Add context details
	err = err.WithDetail("method", "drop_everything").
		WithDetail("supported", []string{"cap", "remove"})

	// Print the error
	fmt.Println(err.Error())

	// Output:
	// config: unknown outlier method
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	// Simulate an underlying error
	originalErr := io.EOF

	// Wrap the error with context
	err := errors.Wrap(originalErr, errors.ErrorTypeFile, "failed to read CSV file").
		WithDetail("file", "ventas.csv").
		WithDetail("line", 42)

	// Check the error type
	if errors.IsType(err, errors.ErrorTypeFile) {
		fmt.Println("This is a file error")
	}

	// Access the original error using Go's standard errors.Is
	if originalErr == io.EOF {
		fmt.Println("Original error was EOF")
	}

	// Output:
	// This is a file error
	// Original error was EOF
}

// ExampleIsRetryable shows how to check if an error is retryable.
func ExampleIsRetryable() {
	tempErr := errors.New(errors.ErrorTypeConnection, "database unreachable")
	fatalErr := errors.New(errors.ErrorTypeConfig, "query is required for relational sources")

	if errors.IsRetryable(tempErr) {
		fmt.Println("Connection error is retryable")
	}

	if !errors.IsRetryable(fatalErr) {
		fmt.Println("Config error is not retryable")
	}

	// Output:
	// Connection error is retryable
	// Config error is not retryable
}

// Example_errorChain shows how to chain multiple error contexts.
func Example_errorChain() {
	err := openSource()
	if err != nil {
		// Wrap with additional context at each level
		err = errors.Wrap(err, errors.ErrorTypeData, "failed to load table").
			WithDetail("source", "sql")

		err = errors.Wrap(err, errors.ErrorTypeInternal, "cleaning run aborted").
			WithDetail("run_id", "run-42")

		fmt.Println("Full error chain:", err)
	}

	// Output:
	// Full error chain: internal: cleaning run aborted: data: failed to load table: connection: connection timeout
}

// openSource simulates a source connection error
func openSource() error {
	return errors.New(errors.ErrorTypeConnection, "connection timeout").
		WithDetail("host", "db.example.com").
		WithDetail("port", 5432)
}

// ExampleIsType demonstrates checking error types.
func ExampleIsType() {
	connErr := errors.New(errors.ErrorTypeConnection, "connection failed")
	cfgErr := errors.New(errors.ErrorTypeConfig, "unsupported export format")

	// Wrap an error
	wrappedErr := errors.Wrap(connErr, errors.ErrorTypeData, "ingestion failed")

	fmt.Printf("Is connection error: %v\n", errors.IsType(connErr, errors.ErrorTypeConnection))
	fmt.Printf("Is config error: %v\n", errors.IsType(cfgErr, errors.ErrorTypeConfig))

	// IsType reports the outermost typed error
	fmt.Printf("Wrapped error is data type: %v\n", errors.IsType(wrappedErr, errors.ErrorTypeData))
	fmt.Printf("Wrapped error contains connection type: %v\n", errors.IsType(wrappedErr, errors.ErrorTypeConnection))

	// Output:
	// Is connection error: true
	// Is config error: true
	// Wrapped error is data type: true
	// Wrapped error contains connection type: false
}
