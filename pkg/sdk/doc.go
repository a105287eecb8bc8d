// Package quizdex provides an embedded Go client for the quizdex quiz
// generation engine backed by Redis with search modules and an
// OpenAI-compatible model provider.
//
//	client, _ := quizdex.New(ctx,
//	    quizdex.WithRedis("localhost:6379", ""),
//	    quizdex.WithOpenAI(os.Getenv("OPENAI_API_KEY"), ""),
//	)
//	defer client.Close()
//
//	quiz, _ := client.GenerateQuiz(ctx, quizdex.QuizRequest{
//	    Topic:        "photosynthesis",
//	    NumQuestions: 5,
//	    CollectionID: "biology-101",
//	})
package quizdex
