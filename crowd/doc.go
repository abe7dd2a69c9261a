// Package crowd authenticates end-user credentials against the Atlassian
// Crowd REST API.
//
// Example usage:
//
//	client, err := crowd.NewClient(
//	    "https://crowd.example.com/crowd/rest",
//	    "my-application",
//	    os.Getenv("CROWD_APP_PASSWORD"),
//	    crowd.WithTimeout(5*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if client.Authenticate(ctx, "jane", password) {
//	    fmt.Println(client.DisplayName(), client.Email())
//	}
//
// Verify returns the profile directly and reports why an attempt failed:
//
//	result, err := client.Verify(ctx, "jane", password)
//	if err != nil {
//	    switch crowd.Kind(err) {
//	    case crowd.FailureRejected:
//	        // bad credentials
//	    case crowd.FailureConnection:
//	        // identity service unreachable
//	    }
//	}
//
// Metrics are reported through the Recorder passed with WithRecorder.
package crowd
