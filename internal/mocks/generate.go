package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Directory --dir ../domain/player --output domain/player --outpkg playermock --filename directory_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/rating --output domain/rating --outpkg ratingmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name PasscodeGenerator --dir ../usecase --output usecase --outpkg usecasemock --filename passcode_generator_mock.go
