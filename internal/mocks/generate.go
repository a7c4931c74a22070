package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SportDataProvider --dir ../usecase --output usecase --outpkg usecasemock --filename sport_data_provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name PredictionGenerator --dir ../usecase --output usecase --outpkg usecasemock --filename prediction_generator_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ResultSink --dir ../usecase --output usecase --outpkg usecasemock --filename result_sink_mock.go
