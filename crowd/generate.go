package crowd

//go:generate go run go.uber.org/mock/mockgen -source=types.go -destination=mock_types_test.go -package=crowd -self_package=github.com/go-authgate/crowdauth/crowd
