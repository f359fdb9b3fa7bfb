package directory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/lopez-it-welt/worktrack/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) seedProject(project *models.Project) {
	data, err := json.Marshal(project)
	s.Require().NoError(err)
	s.Require().NoError(s.mr.Set("project:5", string(data)))
}

func (s *RedisRepositoryTestSuite) TestGetProject() {
	s.seedProject(&models.Project{
		ID:           5,
		Name:         "Webshop Relaunch",
		CustomerName: "Musterfirma GmbH",
	})

	project, err := s.repo.GetProject(context.Background(), &GetProjectInput{
		ProjectID: 5,
	})
	s.Require().NoError(err)
	s.Equal("Webshop Relaunch", project.Name)
	s.Equal("Musterfirma GmbH", project.CustomerName)
}

func (s *RedisRepositoryTestSuite) TestGetProject_NotFound() {
	_, err := s.repo.GetProject(context.Background(), &GetProjectInput{
		ProjectID: 99,
	})
	s.Require().Error(err)
	s.Equal(ErrProjectNotFound, err)
}

func (s *RedisRepositoryTestSuite) TestGetTask() {
	task := &models.Task{
		ID:        9,
		ProjectID: 5,
		Name:      "API-Routen validieren",
	}
	data, err := json.Marshal(task)
	s.Require().NoError(err)
	s.Require().NoError(s.mr.Set("task:9", string(data)))

	retrieved, err := s.repo.GetTask(context.Background(), &GetTaskInput{
		TaskID: 9,
	})
	s.Require().NoError(err)
	s.Equal("API-Routen validieren", retrieved.Name)
	s.Equal(int64(5), retrieved.ProjectID)
}

func (s *RedisRepositoryTestSuite) TestGetTask_NotFound() {
	_, err := s.repo.GetTask(context.Background(), &GetTaskInput{
		TaskID: 404,
	})
	s.Require().Error(err)
	s.Equal(ErrTaskNotFound, err)
}
