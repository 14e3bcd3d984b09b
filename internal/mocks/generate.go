package mocks

//go:generate mockgen -destination=lidar.go -package=mocks github.com/banshee-data/lidarview/internal/lidar Driver,Runtime
//go:generate mockgen -destination=display.go -package=mocks github.com/banshee-data/lidarview/internal/display Surface
