package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ReferenceProvider --dir ../usecase --output usecase --outpkg usecasemock --filename reference_provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name PeopleDirectory --dir ../usecase --output usecase --outpkg usecasemock --filename people_directory_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name EventFeed --dir ../usecase --output usecase --outpkg usecasemock --filename event_feed_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name TextGenerator --dir ../usecase --output usecase --outpkg usecasemock --filename text_generator_mock.go
