// Package openai provides production implementations of the ai interfaces
// using OpenAI-compatible APIs.
//
// The embedder targets any OpenAI-compatible embedding endpoint (Ollama,
// LocalAI, vLLM, OpenAI itself). The generator targets an OpenAI-compatible
// chat endpoint, Groq by default, and selects the model per call from the
// configured preference list.
package openai
