package service

// HelloGreeting is the answer to the hello health query
const HelloGreeting = "Hello, GraphQL!"
